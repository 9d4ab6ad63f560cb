package schema

// OrdersPhotoAssetTable represents the 'orders.photoasset' table
type OrdersPhotoAssetTable struct {
	Table       string
	ID          string
	PhotobookID string
	StorageID   string
	URL         string
	Filename    string
	UploadedAt  string
}

// OrdersPhotoAsset is the schema definition for orders.photoasset
var OrdersPhotoAsset = OrdersPhotoAssetTable{
	Table:       "orders.photoasset",
	ID:          "id",
	PhotobookID: "photobookid",
	StorageID:   "storageid",
	URL:         "url",
	Filename:    "filename",
	UploadedAt:  "uploadedat",
}

func (t OrdersPhotoAssetTable) Columns() []string {
	return []string{t.ID, t.PhotobookID, t.StorageID, t.URL, t.Filename, t.UploadedAt}
}
