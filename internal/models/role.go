package models

// Role enum
type Role string

const (
	// RoleAdmin is the operator role allowed to use diagnostics endpoints.
	RoleAdmin Role = "admin"
)
