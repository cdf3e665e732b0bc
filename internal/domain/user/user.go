package user

// Role distinguishes regular shoppers from back-office staff.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the authenticated account profile as served by the backend and
// cached in local storage between sessions.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the account may use back-office operations.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
