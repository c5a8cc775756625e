package enums

// Role is the coarse actor role carried on access tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
