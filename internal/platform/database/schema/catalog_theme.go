package schema

// CatalogThemeTable represents the 'catalog.theme' table
type CatalogThemeTable struct {
	Table         string
	ID            string
	CategoryID    string
	Name          string
	CoverImageURL string
	IsActive      string
	SortOrder     string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogTheme is the schema definition for catalog.theme
var CatalogTheme = CatalogThemeTable{
	Table:         "catalog.theme",
	ID:            "id",
	CategoryID:    "categoryid",
	Name:          "name",
	CoverImageURL: "coverimageurl",
	IsActive:      "isactive",
	SortOrder:     "sortorder",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CatalogThemeTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.Name, t.CoverImageURL, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
