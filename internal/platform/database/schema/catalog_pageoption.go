package schema

// CatalogPageOptionTable represents the 'catalog.pageoption' table
type CatalogPageOptionTable struct {
	Table           string
	ID              string
	PageCount       string
	AdditionalPrice string
	IsActive        string
	SortOrder       string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogPageOption is the schema definition for catalog.pageoption
var CatalogPageOption = CatalogPageOptionTable{
	Table:           "catalog.pageoption",
	ID:              "id",
	PageCount:       "pagecount",
	AdditionalPrice: "additionalprice",
	IsActive:        "isactive",
	SortOrder:       "sortorder",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CatalogPageOptionTable) Columns() []string {
	return []string{t.ID, t.PageCount, t.AdditionalPrice, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
