// integers.go
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

package repair

import (
	"log"

	"github.com/atelier-studio/portfoliodb/internal/models"
	"gorm.io/gorm"
)

// IntegerRenumber walks the same traversal as DecimalAssign but assigns
// plain zero-based integers independently per scope: collections 0..n,
// each collection's artworks 0..m, root artworks 0..k.
func IntegerRenumber(db *gorm.DB) (Report, error) {
	var collections []models.Collection
	if err := db.Order("sort_order ASC, created_at ASC").Find(&collections).Error; err != nil {
		return Report{}, err
	}

	var rep Report
	for i, collection := range collections {
		rep.Scanned++
		err := db.Model(&models.Collection{}).
			Where("id = ?", collection.ID).
			Update("sort_order", float64(i)).Error
		if err != nil {
			log.Printf("integer renumber: collection %s: %v", collection.ID, err)
			rep.Skipped++
		} else {
			rep.Updated++
		}

		var children []models.Artwork
		err = db.Where("collection_id = ?", collection.ID).
			Order("sort_order ASC, created_at ASC").
			Find(&children).Error
		if err != nil {
			log.Printf("integer renumber: children of %s: %v", collection.ID, err)
			continue
		}
		for j, artwork := range children {
			rep.Scanned++
			err := db.Model(&models.Artwork{}).
				Where("id = ?", artwork.ID).
				Update("sort_order", float64(j)).Error
			if err != nil {
				log.Printf("integer renumber: artwork %d: %v", artwork.ID, err)
				rep.Skipped++
				continue
			}
			rep.Updated++
		}
	}

	var roots []models.Artwork
	err := db.Where("collection_id IS NULL").
		Order("sort_order ASC, created_at ASC").
		Find(&roots).Error
	if err != nil {
		return rep, err
	}
	for i, artwork := range roots {
		rep.Scanned++
		err := db.Model(&models.Artwork{}).
			Where("id = ?", artwork.ID).
			Update("sort_order", float64(i)).Error
		if err != nil {
			log.Printf("integer renumber: root artwork %d: %v", artwork.ID, err)
			rep.Skipped++
			continue
		}
		rep.Updated++
	}
	return rep, nil
}
