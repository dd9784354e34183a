package domain

// Menu Model
type Menu struct {
	ID         int64   `gorm:"primaryKey" json:"id"`                  // Primary key
	Name       string  `gorm:"not null" json:"name"`                  // Display name
	Icon       *string `json:"icon"`                                  // Optional icon name or URL
	OrderIndex int64   `gorm:"not null;default:0" json:"order_index"` // Sort position, ascending
}
