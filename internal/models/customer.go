package models

// Customer represents a row of the customers table.
type Customer struct {
	CustomerID string `db:"customer_id"`
	OwnerID    string `db:"owner_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Mobile     string `db:"mobile"`
	AuditFields
}
