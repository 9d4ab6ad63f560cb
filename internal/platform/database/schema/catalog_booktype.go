package schema

// CatalogBookTypeTable represents the 'catalog.booktype' table
type CatalogBookTypeTable struct {
	Table       string
	ID          string
	Name        string
	AspectRatio string
	Description string
	Price       string
	ImageURL    string
	IsActive    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogBookType is the schema definition for catalog.booktype
var CatalogBookType = CatalogBookTypeTable{
	Table:       "catalog.booktype",
	ID:          "id",
	Name:        "name",
	AspectRatio: "aspectratio",
	Description: "description",
	Price:       "price",
	ImageURL:    "imageurl",
	IsActive:    "isactive",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogBookTypeTable) Columns() []string {
	return []string{t.ID, t.Name, t.AspectRatio, t.Description, t.Price, t.ImageURL, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
