// library_service.go
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

package services

import (
	"fmt"

	"github.com/atelier-studio/portfoliodb/internal/manifest"
	"github.com/atelier-studio/portfoliodb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ArtworkInput carries one artwork submitted through the admin console.
type ArtworkInput struct {
	Title       string `json:"title"`
	Year        string `json:"year"`
	Medium      string `json:"medium"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CreateCollection inserts a new collection and appends it to the root
// manifest in the same transaction, so the new collection is immediately
// visible in the configured order.
func CreateCollection(db *gorm.DB, title string) (*models.Collection, error) {
	children, err := manifest.EncodeChildren(nil)
	if err != nil {
		return nil, err
	}
	collection := models.Collection{
		Title:        title,
		ArtworkOrder: models.JSON{JSON: children},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&collection).Error; err != nil {
			return err
		}
		return appendRootKeys(tx, manifest.CollectionKey(collection.ID))
	})
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// RegisterArtworks inserts a batch of artworks and appends them to the
// owning manifest: the collection's artwork order when collectionID is set,
// the root manifest otherwise. The whole batch commits or none of it does.
func RegisterArtworks(db *gorm.DB, collectionID *string, inputs []ArtworkInput) ([]models.Artwork, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no artworks given")
	}

	if collectionID != nil {
		var collection models.Collection
		err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
			Where("id = ?", *collectionID).
			First(&collection).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("not found")
			}
			return nil, err
		}
	}

	artworks := make([]models.Artwork, len(inputs))
	for i, in := range inputs {
		artworks[i] = models.Artwork{
			Title:        in.Title,
			Year:         in.Year,
			Medium:       in.Medium,
			Description:  in.Description,
			ImageURL:     in.ImageURL,
			CollectionID: collectionID,
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&artworks).Error; err != nil {
			return err
		}
		if collectionID != nil {
			ids := make([]int64, len(artworks))
			for i := range artworks {
				ids[i] = artworks[i].ID
			}
			return appendCollectionChildren(tx, *collectionID, ids...)
		}
		keys := make([]manifest.Key, len(artworks))
		for i := range artworks {
			keys[i] = manifest.ArtworkKey(artworks[i].ID)
		}
		return appendRootKeys(tx, keys...)
	})
	if err != nil {
		return nil, err
	}
	return artworks, nil
}

// DeleteCollection removes the collection row only. Its artworks keep their
// rows, and stale manifest entries fall away on the next order write or
// repair run.
func DeleteCollection(db *gorm.DB, collectionID string) error {
	result := db.Where("id = ?", collectionID).Delete(&models.Collection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}

// DeleteArtwork removes the artwork row only; manifests self-heal as above.
func DeleteArtwork(db *gorm.DB, artworkID int64) error {
	result := db.Delete(&models.Artwork{}, artworkID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not found")
	}
	return nil
}
