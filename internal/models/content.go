package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection is a folder-like grouping of artworks. ArtworkOrder is the
// collection's manifest: a JSON array of child artwork ids defining display
// order. OrderVersion guards manifest writes against concurrent admin edits.
type Collection struct {
	ID           string  `gorm:"type:char(36);primaryKey"`
	Title        string  `gorm:"size:255;not null"`
	ArtworkOrder JSON    `gorm:"type:json"`
	OrderVersion uint64  `gorm:"not null;default:0"`
	SortOrder    float64 `gorm:"not null;default:0"` // legacy column, rewritten by repair jobs only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Artwork is a leaf content item. A nil CollectionID means the artwork lives
// at the portfolio root.
type Artwork struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Title        string  `gorm:"size:255;not null"`
	CollectionID *string `gorm:"type:char(36);index"`
	ImageURL     string  `gorm:"size:1024"`
	SortOrder    float64 `gorm:"not null;default:0"` // legacy column, rewritten by repair jobs only
	ViewCount    int64   `gorm:"not null;default:0"`
	Medium       string  `gorm:"size:255"`
	Year         string  `gorm:"size:32"`
	Description  string  `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns a uuid when the caller did not provide one.
func (c *Collection) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Collection
func (Collection) TableName() string {
	return "collections"
}

// TableName overrides the table name for Artwork
func (Artwork) TableName() string {
	return "artworks"
}
