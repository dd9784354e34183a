package domain

// FriendLink Model
type FriendLink struct {
	ID         int64   `gorm:"primaryKey" json:"id"`                  // Primary key
	Name       string  `gorm:"not null" json:"name"`                  // Site name
	URL        string  `gorm:"column:url;unique;not null" json:"url"` // Unique site URL
	Logo       *string `json:"logo"`                                  // Optional logo URL
	OrderIndex int64   `gorm:"not null;default:0" json:"order_index"` // Sort position, ascending
}
