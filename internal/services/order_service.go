// order_service.go
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
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SaveRootOrder persists a new root manifest. The caller submits the order
// it resolved at some structure version; the write succeeds only if that
// version is still current (compare-and-swap under a row lock), otherwise
// E_VERSION is returned and the caller must re-resolve and retry. This is
// the only write path for root ordering; the legacy sort_order column is
// never touched here.
func SaveRootOrder(db *gorm.DB, version uint64, keys []manifest.Key) (uint64, int64, error) {
	var newVersion uint64
	var affectedRows int64

	err := db.Transaction(func(tx *gorm.DB) error {
		cfg, err := lockSiteConfig(tx)
		if err != nil {
			return err
		}

		if cfg.StructureVersion != version {
			return fmt.Errorf("E_VERSION")
		}

		pruned, err := pruneRootKeys(tx, keys)
		if err != nil {
			return err
		}

		encoded, err := manifest.EncodeRoot(pruned)
		if err != nil {
			return err
		}

		newVersion = cfg.StructureVersion + 1
		result := tx.Model(cfg).
			Where("structure_version = ?", cfg.StructureVersion).
			Updates(map[string]interface{}{
				"root_structure":    encoded,
				"structure_version": newVersion,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("E_VERSION - Failed to update root structure due to concurrent modification")
		}
		affectedRows = result.RowsAffected

		return nil
	})

	return newVersion, affectedRows, err
}

// SaveCollectionOrder persists a new child manifest for one collection,
// guarded by the collection's order version the same way SaveRootOrder
// guards the root.
func SaveCollectionOrder(db *gorm.DB, collectionID string, version uint64, ids []int64) (uint64, int64, error) {
	var newVersion uint64
	var affectedRows int64

	err := db.Transaction(func(tx *gorm.DB) error {
		var col models.Collection
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", collectionID).
			First(&col).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("not found")
			}
			return err
		}

		if col.OrderVersion != version {
			return fmt.Errorf("E_VERSION")
		}

		pruned, err := pruneChildIDs(tx, collectionID, ids)
		if err != nil {
			return err
		}

		encoded, err := manifest.EncodeChildren(pruned)
		if err != nil {
			return err
		}

		newVersion = col.OrderVersion + 1
		result := tx.Model(&col).
			Where("order_version = ?", col.OrderVersion).
			Updates(map[string]interface{}{
				"artwork_order": encoded,
				"order_version": newVersion,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("E_VERSION - Failed to update artwork order due to concurrent modification")
		}
		affectedRows = result.RowsAffected

		return nil
	})

	return newVersion, affectedRows, err
}

// pruneRootKeys drops duplicate keys and keys whose row no longer exists, so
// a saved manifest never accumulates dangling references from deletes that
// raced the admin's drag-and-drop session.
func pruneRootKeys(tx *gorm.DB, keys []manifest.Key) ([]manifest.Key, error) {
	collectionIDs := make([]string, 0, len(keys))
	artworkIDs := make([]int64, 0, len(keys))
	for _, k := range keys {
		if k.Kind == manifest.KindCollection {
			collectionIDs = append(collectionIDs, k.CollectionID)
		} else {
			artworkIDs = append(artworkIDs, k.ArtworkID)
		}
	}

	liveCollections := make(map[string]bool, len(collectionIDs))
	if len(collectionIDs) > 0 {
		var ids []string
		if err := tx.Model(&models.Collection{}).Where("id IN ?", collectionIDs).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		for _, id := range ids {
			liveCollections[id] = true
		}
	}

	liveArtworks := make(map[int64]bool, len(artworkIDs))
	if len(artworkIDs) > 0 {
		var ids []int64
		if err := tx.Model(&models.Artwork{}).Where("id IN ?", artworkIDs).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		for _, id := range ids {
			liveArtworks[id] = true
		}
	}

	pruned := make([]manifest.Key, 0, len(keys))
	seen := make(map[manifest.Key]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		if k.Kind == manifest.KindCollection && !liveCollections[k.CollectionID] {
			continue
		}
		if k.Kind == manifest.KindArtwork && !liveArtworks[k.ArtworkID] {
			continue
		}
		seen[k] = true
		pruned = append(pruned, k)
	}
	return pruned, nil
}

// pruneChildIDs drops duplicates and ids that are not live members of the
// collection.
func pruneChildIDs(tx *gorm.DB, collectionID string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var members []int64
	err := tx.Model(&models.Artwork{}).
		Where("collection_id = ? AND id IN ?", collectionID, ids).
		Pluck("id", &members).Error
	if err != nil {
		return nil, err
	}
	live := make(map[int64]bool, len(members))
	for _, id := range members {
		live[id] = true
	}

	pruned := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !live[id] {
			continue
		}
		seen[id] = true
		pruned = append(pruned, id)
	}
	return pruned, nil
}

// appendRootKeys appends keys to the root manifest inside the caller's
// transaction. Creation-time appends go through here so the read-modify-write
// happens with the config row locked; the version still advances so an admin
// holding a stale resolved order conflicts instead of clobbering the append.
func appendRootKeys(tx *gorm.DB, keys ...manifest.Key) error {
	cfg, err := lockSiteConfig(tx)
	if err != nil {
		return err
	}

	current := manifest.DecodeRoot(cfg.RootStructure.JSON)
	encoded, err := manifest.EncodeRoot(append(current, keys...))
	if err != nil {
		return err
	}

	return tx.Model(cfg).
		Updates(map[string]interface{}{
			"root_structure":    encoded,
			"structure_version": cfg.StructureVersion + 1,
		}).Error
}

// appendCollectionChildren appends artwork ids to a collection's manifest
// inside the caller's transaction, with the collection row locked.
func appendCollectionChildren(tx *gorm.DB, collectionID string, ids ...int64) error {
	var col models.Collection
	if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", collectionID).
		First(&col).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("not found")
		}
		return err
	}

	current := manifest.DecodeChildren(col.ArtworkOrder.JSON)
	encoded, err := manifest.EncodeChildren(append(current, ids...))
	if err != nil {
		return err
	}

	return tx.Model(&col).
		Updates(map[string]interface{}{
			"artwork_order": encoded,
			"order_version": col.OrderVersion + 1,
		}).Error
}
