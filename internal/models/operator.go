package models

import "time"

// Operator is an authenticated user of the records system. The table keeps
// its historical name `users`; operators are created by seeding or direct
// database manipulation, never by self-service registration.
type Operator struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:255;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password;not null" json:"-"`
	Role         string     `gorm:"size:32;default:user" json:"role"`
	Email        string     `gorm:"size:255" json:"email"`
	FullName     string     `gorm:"size:255" json:"full_name"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// TableName preserves the schema of the original database file.
func (Operator) TableName() string {
	return "users"
}
