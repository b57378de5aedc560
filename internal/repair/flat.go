// flat.go
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

// FlatRenumber assigns a dense zero-based sort_order to every artwork,
// newest first, ignoring collections. Bootstraps a previously unordered set.
func FlatRenumber(db *gorm.DB) (Report, error) {
	var artworks []models.Artwork
	if err := db.Order("created_at DESC").Find(&artworks).Error; err != nil {
		return Report{}, err
	}

	var rep Report
	for i, artwork := range artworks {
		rep.Scanned++
		err := db.Model(&models.Artwork{}).
			Where("id = ?", artwork.ID).
			Update("sort_order", float64(i)).Error
		if err != nil {
			log.Printf("flat renumber: artwork %d: %v", artwork.ID, err)
			rep.Skipped++
			continue
		}
		rep.Updated++
	}
	return rep, nil
}
