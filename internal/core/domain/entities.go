package domain

// Role represents user role in the system
type Role string

const (
	RoleFarmer      Role = "FARMER"
	RoleContributor Role = "CONTRIBUTOR"
	RoleAdmin       Role = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleFarmer, RoleContributor, RoleAdmin:
		return true
	}
	return false
}

// LoanStatus represents the lifecycle state of a loan application
type LoanStatus string

const (
	LoanPending  LoanStatus = "Pending"
	LoanApproved LoanStatus = "Approved"
	LoanRejected LoanStatus = "Rejected"
)

// Terminal reports whether s permits no further transition.
func (s LoanStatus) Terminal() bool {
	return s == LoanApproved || s == LoanRejected
}

// ContributorRate is a contributor's single active offered rate
type ContributorRate struct {
	ContributorUsername string
	PreferredRate       float64
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
