package models

// UserRole distinguishes admins from front-desk staff.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

// User is a staff account. Users are the actors recorded against payment
// transactions and audit events.
type User struct {
	Base
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"not null;default:staff" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"is_active"`
}
