// gallery_service.go
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
	"gorm.io/hints"
)

// RootEntry is one resolved element of the portfolio root: either a
// collection or a root-level artwork. Exactly one field is set.
type RootEntry struct {
	Collection *models.Collection `json:"collection,omitempty"`
	Artwork    *models.Artwork    `json:"artwork,omitempty"`
}

// Key maps the entry back to its manifest key.
func (e RootEntry) Key() manifest.Key {
	if e.Collection != nil {
		return manifest.CollectionKey(e.Collection.ID)
	}
	return manifest.ArtworkKey(e.Artwork.ID)
}

// ResolveRootEntries returns the portfolio root in display order together
// with the structure version the order was read at. Manifest drift is healed
// on the fly: dangling keys are dropped, unlisted collections and root
// artworks are appended after the listed entries.
func ResolveRootEntries(db *gorm.DB) ([]RootEntry, uint64, error) {
	cfg, err := GetSiteConfig(db)
	if err != nil {
		return nil, 0, err
	}

	var collections []models.Collection
	if err := db.Find(&collections).Error; err != nil {
		return nil, 0, err
	}

	var rootArtworks []models.Artwork
	if err := db.Where("collection_id IS NULL").Find(&rootArtworks).Error; err != nil {
		return nil, 0, err
	}

	candidates := make([]RootEntry, 0, len(collections)+len(rootArtworks))
	for i := range collections {
		candidates = append(candidates, RootEntry{Collection: &collections[i]})
	}
	for i := range rootArtworks {
		candidates = append(candidates, RootEntry{Artwork: &rootArtworks[i]})
	}

	keys := manifest.DecodeRoot(cfg.RootStructure.JSON)
	resolved := manifest.Resolve(keys, candidates, RootEntry.Key)

	return resolved, cfg.StructureVersion, nil
}

// ResolveCollectionArtworks returns one collection's artworks in display
// order plus the order version the manifest was read at.
func ResolveCollectionArtworks(db *gorm.DB, collectionID string) ([]models.Artwork, uint64, error) {
	var col models.Collection
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", collectionID).
		First(&col).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, fmt.Errorf("not found")
		}
		return nil, 0, err
	}

	var children []models.Artwork
	if err := db.Where("collection_id = ?", collectionID).Find(&children).Error; err != nil {
		return nil, 0, err
	}

	ids := manifest.DecodeChildren(col.ArtworkOrder.JSON)
	resolved := manifest.Resolve(ids, children, func(a models.Artwork) int64 { return a.ID })

	return resolved, col.OrderVersion, nil
}

// BuildFeed flattens the whole portfolio into the single artwork sequence
// the public gallery renders: root order governs, each collection expands to
// its own resolved order in place, and artworks that drifted out of every
// manifest still surface at the end of their scope.
func BuildFeed(db *gorm.DB) ([]models.Artwork, error) {
	cfg, err := GetSiteConfig(db)
	if err != nil {
		return nil, err
	}

	var collections []models.Collection
	if err := db.Find(&collections).Error; err != nil {
		return nil, err
	}

	var allArtworks []models.Artwork
	if err := db.Clauses(hints.CommentBefore("select", "gallery feed")).
		Find(&allArtworks).Error; err != nil {
		return nil, err
	}

	rootCandidates := make([]RootEntry, 0, len(collections))
	for i := range collections {
		rootCandidates = append(rootCandidates, RootEntry{Collection: &collections[i]})
	}
	byCollection := make(map[string][]models.Artwork)
	for i := range allArtworks {
		a := allArtworks[i]
		if a.CollectionID == nil {
			rootCandidates = append(rootCandidates, RootEntry{Artwork: &allArtworks[i]})
		} else {
			byCollection[*a.CollectionID] = append(byCollection[*a.CollectionID], a)
		}
	}

	rootKeys := manifest.DecodeRoot(cfg.RootStructure.JSON)
	root := manifest.Resolve(rootKeys, rootCandidates, RootEntry.Key)

	feed := make([]models.Artwork, 0, len(allArtworks))
	for _, entry := range root {
		if entry.Artwork != nil {
			feed = append(feed, *entry.Artwork)
			continue
		}

		col := entry.Collection
		children := byCollection[col.ID]
		ids := manifest.DecodeChildren(col.ArtworkOrder.JSON)
		ordered := manifest.Resolve(ids, children, func(a models.Artwork) int64 { return a.ID })
		feed = append(feed, ordered...)
	}

	return feed, nil
}
