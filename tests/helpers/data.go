// data.go
//
// A Go data service backing the atelier portfolio site and admin console
// Copyright (c) 2026 Atelier Studio <dev@atelier-studio.com>
//
// This file is part of portfoliodb.
// portfoliodb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// portfoliodb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with portfoliodb.
// If not, see <https://www.gnu.org/licenses/>.

package helpers

import (
	"testing"
	"time"

	"github.com/atelier-studio/portfoliodb/internal/manifest"
	"github.com/atelier-studio/portfoliodb/internal/models"
	"gorm.io/gorm"
)

// CreateTestCollection creates a collection with the given id and title.
func CreateTestCollection(t *testing.T, db *gorm.DB, id, title string) {
	t.Helper()
	col := models.Collection{
		ID:    id,
		Title: title,
	}
	if err := db.Create(&col).Error; err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
}

// CreateTestArtwork creates an artwork, optionally attached to a collection.
// Created timestamps are spread by id so ordering by created_at is stable.
func CreateTestArtwork(t *testing.T, db *gorm.DB, id int64, collectionID *string, title string) {
	t.Helper()
	art := models.Artwork{
		ID:           id,
		CollectionID: collectionID,
		Title:        title,
		CreatedAt:    time.Now().Add(time.Duration(id) * time.Second),
	}
	if err := db.Create(&art).Error; err != nil {
		t.Fatalf("Failed to create artwork: %v", err)
	}
}

// SetCollectionManifest writes the artwork ordering manifest of a collection.
func SetCollectionManifest(t *testing.T, db *gorm.DB, collectionID string, ids []int64, version uint64) {
	t.Helper()
	raw, err := manifest.EncodeChildren(ids)
	if err != nil {
		t.Fatalf("Failed to encode children: %v", err)
	}
	res := db.Model(&models.Collection{}).Where("id = ?", collectionID).
		Updates(map[string]interface{}{
			"artwork_order": models.JSON{JSON: raw},
			"order_version": version,
		})
	if res.Error != nil {
		t.Fatalf("Failed to set collection manifest: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		t.Fatalf("Collection %s not found", collectionID)
	}
}

// SetRootManifest writes the site-wide root structure manifest, creating the
// config row if the site has never been configured.
func SetRootManifest(t *testing.T, db *gorm.DB, keys []manifest.Key, version uint64) {
	t.Helper()
	raw, err := manifest.EncodeRoot(keys)
	if err != nil {
		t.Fatalf("Failed to encode root structure: %v", err)
	}

	var cfg models.SiteConfig
	if err := db.Order("config_id").First(&cfg).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			t.Fatalf("Failed to load site config: %v", err)
		}
		if err := db.Create(&cfg).Error; err != nil {
			t.Fatalf("Failed to create site config: %v", err)
		}
	}

	res := db.Model(&models.SiteConfig{}).Where("config_id = ?", cfg.ConfigID).
		Updates(map[string]interface{}{
			"root_structure":    models.JSON{JSON: raw},
			"structure_version": version,
		})
	if res.Error != nil {
		t.Fatalf("Failed to set root manifest: %v", res.Error)
	}
}
