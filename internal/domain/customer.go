package domain

// CustomerStatus represents the lifecycle state of a customer profile
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
)

// Customer represents a customer profile as served by the remote customer
// service. Username optionally links the profile to a login identity.
// Customers are never hard-deleted; deactivation moves them to INACTIVE.
type Customer struct {
	CustomerID int64          `json:"customerId"`
	Username   string         `json:"username,omitempty"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	Status     CustomerStatus `json:"status"`
}

// Editable reports whether the presentation layer should offer edit
// controls for this customer. INACTIVE suppresses editing without being a
// hard guard: the server remains free to accept admin updates.
func (c *Customer) Editable() bool {
	return c.Status != CustomerStatusInactive
}

// ValidCustomerStatus reports whether s is one of the known statuses.
func ValidCustomerStatus(s CustomerStatus) bool {
	switch s {
	case CustomerStatusActive, CustomerStatusSuspended, CustomerStatusInactive:
		return true
	}
	return false
}
