package domain

// Customer is a buyer that sales may optionally reference.
type Customer struct {
	CustomerID string `json:"customerID"`
	OwnerID    string `json:"ownerID"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"` // Unique per owner
	AuditFields
}
