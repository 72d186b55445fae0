package db

import "time"

// ContentRecord stores one document of a collection. Position keeps the
// array order of the JSON representation.
type ContentRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"size:64;not null;index:idx_content_collection_position,priority:1"`
	Position   int    `gorm:"not null;index:idx_content_collection_position,priority:2"`
	Slug       string `gorm:"size:191;index"`
	Body       string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}
