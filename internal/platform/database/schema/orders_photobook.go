package schema

// OrdersPhotobookTable represents the 'orders.photobook' table
type OrdersPhotobookTable struct {
	Table         string
	ID            string
	ShareID       string
	BookTypeID    string
	PageOptionID  string
	ThemeID       string
	CoverDesignID string
	Status        string
	Pages         string
	CreatedAt     string
	UpdatedAt     string
}

// OrdersPhotobook is the schema definition for orders.photobook
var OrdersPhotobook = OrdersPhotobookTable{
	Table:         "orders.photobook",
	ID:            "id",
	ShareID:       "shareid",
	BookTypeID:    "booktypeid",
	PageOptionID:  "pageoptionid",
	ThemeID:       "themeid",
	CoverDesignID: "coverdesignid",
	Status:        "status",
	Pages:         "pages",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t OrdersPhotobookTable) Columns() []string {
	return []string{t.ID, t.ShareID, t.BookTypeID, t.PageOptionID, t.ThemeID, t.CoverDesignID, t.Status, t.Pages, t.CreatedAt, t.UpdatedAt}
}
