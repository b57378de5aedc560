package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atelier-studio/portfoliodb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GetSiteConfig returns the site configuration row, creating it on first
// access. Callers never address the row by id; this service owns the
// singleton lifecycle.
func GetSiteConfig(db *gorm.DB) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Order("config_id").
		First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cfg = models.SiteConfig{}
	if err := db.Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// lockSiteConfig fetches the config row FOR UPDATE inside a transaction,
// creating it first if the site has never been configured.
func lockSiteConfig(tx *gorm.DB) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("config_id").
		First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cfg = models.SiteConfig{}
	if err := tx.Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateSiteSettings replaces the header and footer settings blobs. A nil
// map leaves that blob unchanged.
func UpdateSiteSettings(db *gorm.DB, header, footer map[string]interface{}) (*models.SiteConfig, error) {
	updates := make(map[string]interface{}, 2)
	if header != nil {
		raw, err := json.Marshal(header)
		if err != nil {
			return nil, err
		}
		updates["header_settings"] = raw
	}
	if footer != nil {
		raw, err := json.Marshal(footer)
		if err != nil {
			return nil, err
		}
		updates["footer_settings"] = raw
	}

	var out *models.SiteConfig
	err := db.Transaction(func(tx *gorm.DB) error {
		cfg, err := lockSiteConfig(tx)
		if err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(cfg).Updates(updates).Error; err != nil {
				return err
			}
		}
		out = cfg
		return nil
	})
	return out, err
}

// SiteContentInput is a patch for the public page copy; nil fields are left
// unchanged.
type SiteContentInput struct {
	HeroTitle        *string `json:"heroTitle"`
	HeroSubtitle     *string `json:"heroSubtitle"`
	HeroImageURL     *string `json:"heroImageUrl"`
	AboutBio         *string `json:"aboutBio"`
	AboutCollections *string `json:"aboutCollections"`
}

// GetSiteContent returns the site copy row, creating it on first access.
func GetSiteContent(db *gorm.DB) (*models.SiteContent, error) {
	var content models.SiteContent
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Order("content_id").
		First(&content).Error
	if err == nil {
		return &content, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	content = models.SiteContent{}
	if err := db.Create(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// UpdateSiteContent applies a patch to the site copy and returns the
// updated row.
func UpdateSiteContent(db *gorm.DB, patch SiteContentInput) (*models.SiteContent, error) {
	updates := make(map[string]interface{})
	if patch.HeroTitle != nil {
		updates["hero_title"] = *patch.HeroTitle
	}
	if patch.HeroSubtitle != nil {
		updates["hero_subtitle"] = *patch.HeroSubtitle
	}
	if patch.HeroImageURL != nil {
		updates["hero_image_url"] = *patch.HeroImageURL
	}
	if patch.AboutBio != nil {
		updates["about_bio"] = *patch.AboutBio
	}
	if patch.AboutCollections != nil {
		updates["about_collections"] = *patch.AboutCollections
	}

	content, err := GetSiteContent(db)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return content, nil
	}
	if err := db.Model(content).Updates(updates).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// ListExhibitions returns exhibitions newest first.
func ListExhibitions(db *gorm.DB) ([]models.Exhibition, error) {
	var exhibitions []models.Exhibition
	err := db.Order("created_at DESC").Find(&exhibitions).Error
	return exhibitions, err
}

// SaveExhibition creates the exhibition when ID is zero, updates it
// otherwise. Updates write every mutable column so a field can be cleared
// back to empty.
func SaveExhibition(db *gorm.DB, ex *models.Exhibition) error {
	if ex.ID == 0 {
		return db.Create(ex).Error
	}
	result := db.Model(&models.Exhibition{}).Where("id = ?", ex.ID).
		Select("title", "location", "dates", "year", "link").
		Updates(ex)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// DeleteExhibition removes an exhibition by id.
func DeleteExhibition(db *gorm.DB, id uint64) error {
	result := db.Delete(&models.Exhibition{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// AddSubscriber records a newsletter signup. A duplicate email is reported
// distinctly from generic failures so the public form can say so.
func AddSubscriber(db *gorm.DB, email string) (*models.Subscriber, error) {
	sub := models.Subscriber{Email: email}
	if err := db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("duplicate email")
		}
		return nil, err
	}
	return &sub, nil
}

// ListSubscribers returns all signups, newest first.
func ListSubscribers(db *gorm.DB) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	err := db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// DeleteSubscriber removes a signup by id.
func DeleteSubscriber(db *gorm.DB, id uint64) error {
	result := db.Delete(&models.Subscriber{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// ListUserProfiles returns the admin-account read model, newest first.
// Account lifecycle happens at the external auth provider.
func ListUserProfiles(db *gorm.DB) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := db.Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

// IncrementArtworkViews bumps an artwork's view counter in a single UPDATE,
// safe under concurrent page loads.
func IncrementArtworkViews(db *gorm.DB, artworkID int64) error {
	result := db.Model(&models.Artwork{}).
		Where("id = ?", artworkID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
