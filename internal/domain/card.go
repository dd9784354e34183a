package domain

// Card Model
type Card struct {
	ID     int64   `gorm:"primaryKey" json:"id"`           // Primary key
	Title  string  `gorm:"not null" json:"title"`          // Link title
	URL    string  `gorm:"column:url;not null" json:"url"` // Target URL
	Icon   *string `json:"icon"`                           // Optional icon URL
	MenuID *int64  `json:"menu_id"`                        // Owning menu, cascades on delete
}
