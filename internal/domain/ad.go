package domain

// Ad Model
type Ad struct {
	ID    int64   `gorm:"primaryKey" json:"id"`  // Primary key
	Image string  `gorm:"not null" json:"image"` // Banner image path or URL
	Link  *string `json:"link"`                  // Optional click-through target
}
