package models

import (
	"time"
)

// SiteConfig holds site-wide layout state. RootStructure is the root
// manifest: a JSON array of typed keys ("collection:<uuid>" /
// "artwork:<id>") defining the order of the portfolio's top level.
// StructureVersion guards root manifest writes the same way
// Collection.OrderVersion guards per-collection writes.
//
// The table holds a single row, but callers never address it by id; the
// site service owns the singleton lifecycle.
type SiteConfig struct {
	ConfigID         uint64 `gorm:"primaryKey;autoIncrement"`
	RootStructure    JSON   `gorm:"type:json"`
	StructureVersion uint64 `gorm:"not null;default:0"`
	HeaderSettings   JSON   `gorm:"type:json"`
	FooterSettings   JSON   `gorm:"type:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SiteContent holds the editable copy for the public pages. Single row,
// managed by the site service.
type SiteContent struct {
	ContentID        uint64 `gorm:"primaryKey;autoIncrement"`
	HeroTitle        string `gorm:"size:255"`
	HeroSubtitle     string `gorm:"size:512"`
	HeroImageURL     string `gorm:"size:1024"`
	AboutBio         string `gorm:"type:text"`
	AboutCollections string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the table name for SiteConfig
func (SiteConfig) TableName() string {
	return "site_config"
}

// TableName overrides the table name for SiteContent
func (SiteContent) TableName() string {
	return "site_content"
}
