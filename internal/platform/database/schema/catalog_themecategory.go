package schema

// CatalogThemeCategoryTable represents the 'catalog.themecategory' table
type CatalogThemeCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	IsActive    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogThemeCategory is the schema definition for catalog.themecategory
var CatalogThemeCategory = CatalogThemeCategoryTable{
	Table:       "catalog.themecategory",
	ID:          "id",
	Name:        "name",
	Description: "description",
	IsActive:    "isactive",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogThemeCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
