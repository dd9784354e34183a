package domain

// User Model
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`            // Primary key
	Username string `gorm:"unique;not null" json:"username"` // Unique username
	Password string `gorm:"not null" json:"-"`               // Hashed password, never serialized
}
