// gallery.go
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

package handlers

import (
	"fmt"

	"github.com/atelier-studio/portfoliodb/internal/services"
	"github.com/atelier-studio/portfoliodb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GalleryHandler serves the public site: ordered structure, the flattened
// feed, per-collection pages, and view counting.
type GalleryHandler struct {
	DB *gorm.DB
}

// GetRootStructure handles GET /api/gallery/structure
// @Summary Get the ordered root structure
// @Description Get collections and root artworks in configured order, with the order version
// @Tags Gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /gallery/structure [get]
func (h *GalleryHandler) GetRootStructure(c *fiber.Ctx) error {
	entries, version, err := services.ResolveRootEntries(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getRootStructure")
	}

	items := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		item := fiber.Map{"key": e.Key().String()}
		if e.Collection != nil {
			item["collection"] = e.Collection
		}
		if e.Artwork != nil {
			item["artwork"] = e.Artwork
		}
		items = append(items, item)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"version": fmt.Sprintf("%d", version),
		"entries": items,
	})
}

// GetFeed handles GET /api/gallery/feed
// @Summary Get the flattened artwork feed
// @Description Get every visible artwork in structure order, collections expanded in place
// @Tags Gallery
// @Produce json
// @Success 200 {array} models.Artwork
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /gallery/feed [get]
func (h *GalleryHandler) GetFeed(c *fiber.Ctx) error {
	feed, err := services.BuildFeed(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getFeed")
	}
	return c.Status(fiber.StatusOK).JSON(feed)
}

// GetCollectionArtworks handles GET /api/gallery/collections/:id/artworks
// @Summary Get a collection's artworks in order
// @Description Get the artworks of one collection in its configured order, with the order version
// @Tags Gallery
// @Produce json
// @Param id path string true "Collection ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /gallery/collections/{id}/artworks [get]
func (h *GalleryHandler) GetCollectionArtworks(c *fiber.Ctx) error {
	id := c.Params("id")

	artworks, version, err := services.ResolveCollectionArtworks(h.DB, id)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Collection '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getCollectionArtworks")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"version":  fmt.Sprintf("%d", version),
		"artworks": artworks,
	})
}

// RecordArtworkView handles POST /api/gallery/artworks/:id/view
// @Summary Record an artwork view
// @Description Atomically increment an artwork's view counter
// @Tags Gallery
// @Produce json
// @Param id path int true "Artwork ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /gallery/artworks/{id}/view [post]
func (h *GalleryHandler) RecordArtworkView(c *fiber.Ctx) error {
	id, err := parseArtworkID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid artwork id", fiber.StatusBadRequest, "gallery.validation.input")
	}

	if err := services.IncrementArtworkViews(h.DB, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Artwork '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "recordArtworkView")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
