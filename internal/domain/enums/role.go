package enums

type Role string

const (
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)
