package schema

// AdminAccountTable represents the 'admin.account' table
type AdminAccountTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    string
	UpdatedAt    string
}

// AdminAccount is the schema definition for admin.account
var AdminAccount = AdminAccountTable{
	Table:        "admin.account",
	ID:           "id",
	Email:        "email",
	PasswordHash: "passwordhash",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t AdminAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.PasswordHash, t.CreatedAt, t.UpdatedAt}
}
