// library.go
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
	"path"
	"strings"

	"github.com/atelier-studio/portfoliodb/internal/manifest"
	"github.com/atelier-studio/portfoliodb/internal/services"
	"github.com/atelier-studio/portfoliodb/internal/storage"
	"github.com/atelier-studio/portfoliodb/internal/types"
	"github.com/atelier-studio/portfoliodb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LibraryHandler handles the admin console's library mutations: collection
// and artwork lifecycle, image upload, and order writes. Storage is nil when
// no object store is configured; uploads then return 503.
type LibraryHandler struct {
	DB      *gorm.DB
	Storage *storage.ImageStore
}

// CreateCollection handles POST /api/library/collections
// @Summary Create a collection
// @Description Create a collection and append it to the root structure
// @Tags Library
// @Accept json
// @Produce json
// @Param body body object true "Collection title"
// @Success 201 {object} models.Collection
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/collections [post]
func (h *LibraryHandler) CreateCollection(c *fiber.Ctx) error {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}

	collection, err := services.CreateCollection(h.DB, body.Title)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createCollection")
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// DeleteCollection handles DELETE /api/library/collections/:id
// @Summary Delete a collection
// @Description Delete a collection row; manifest references heal on the next resolve
// @Tags Library
// @Produce json
// @Param id path string true "Collection ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/collections/{id} [delete]
func (h *LibraryHandler) DeleteCollection(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeleteCollection(h.DB, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Collection '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteCollection")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterArtworks handles POST /api/library/artworks
// @Summary Register artworks
// @Description Insert a batch of artworks and append them to the owning order
// @Tags Library
// @Accept json
// @Produce json
// @Param body body object true "Artworks and optional collection id"
// @Success 201 {array} models.Artwork
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/artworks [post]
func (h *LibraryHandler) RegisterArtworks(c *fiber.Ctx) error {
	var body struct {
		CollectionID *string                             `json:"collectionId"`
		Artworks     types.FlexList[services.ArtworkInput] `json:"artworks"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}
	if len(body.Artworks) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}

	artworks, err := services.RegisterArtworks(h.DB, body.CollectionID, body.Artworks.Slice())
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Collection '%s' not found", *body.CollectionID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "registerArtworks")
	}
	return c.Status(fiber.StatusCreated).JSON(artworks)
}

// DeleteArtwork handles DELETE /api/library/artworks/:id
// @Summary Delete an artwork
// @Description Delete an artwork row; manifest references heal on the next resolve
// @Tags Library
// @Produce json
// @Param id path int true "Artwork ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/artworks/{id} [delete]
func (h *LibraryHandler) DeleteArtwork(c *fiber.Ctx) error {
	id, err := parseArtworkID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid artwork id", fiber.StatusBadRequest, "library.validation.input")
	}

	if err := services.DeleteArtwork(h.DB, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Artwork '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteArtwork")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage handles POST /api/library/images
// @Summary Upload an artwork image
// @Description Store an image in the object store and return its public URL
// @Tags Library
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /library/images [post]
func (h *LibraryHandler) UploadImage(c *fiber.Ctx) error {
	if h.Storage == nil {
		return utils.ErrorResponse(c, "Object storage is not configured", fiber.StatusServiceUnavailable, "uploadImage")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.ErrorResponse(c, "Missing 'image' form file", fiber.StatusBadRequest, "library.validation.input")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadImage")
	}
	defer file.Close()

	objectPath := fmt.Sprintf("images/%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))
	contentType := storage.GuessContentType(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))

	if err := h.Storage.PutImage(c.Context(), objectPath, file, fileHeader.Size, contentType); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadImage")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": h.Storage.PublicURL(objectPath),
	})
}

// SaveRootOrder handles POST /api/library/order/root
// @Summary Save the root structure order
// @Description Replace the root structure, version checked; unknown key forms are rejected
// @Tags Library
// @Accept json
// @Produce json
// @Param body body object true "Version and ordered keys"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/order/root [post]
func (h *LibraryHandler) SaveRootOrder(c *fiber.Ctx) error {
	var body struct {
		Version   types.FlexUint64 `json:"version"`
		Structure []string         `json:"structure"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}

	keys := make([]manifest.Key, 0, len(body.Structure))
	for _, s := range body.Structure {
		k, err := manifest.ParseKey(s)
		if err != nil {
			return utils.ErrorResponse(c, fmt.Sprintf("Invalid structure key %q", s), fiber.StatusBadRequest, "library.validation.input")
		}
		keys = append(keys, k)
	}

	newVersion, affectedRows, err := services.SaveRootOrder(h.DB, body.Version.Uint64(), keys)
	if err != nil {
		if strings.Contains(err.Error(), "E_VERSION") {
			return utils.VersionErrorResponse(c)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveRootOrder")
	}
	return utils.MutationSuccessResponse(c, newVersion, affectedRows)
}

// SaveCollectionOrder handles POST /api/library/order/collections/:id
// @Summary Save a collection's artwork order
// @Description Replace one collection's artwork order, version checked
// @Tags Library
// @Accept json
// @Produce json
// @Param id path string true "Collection ID"
// @Param body body object true "Version and ordered artwork ids"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /library/order/collections/{id} [post]
func (h *LibraryHandler) SaveCollectionOrder(c *fiber.Ctx) error {
	id := c.Params("id")

	var body struct {
		Version types.FlexUint64                 `json:"version"`
		Order   types.FlexList[types.FlexUint64] `json:"order"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "library.validation.input")
	}

	ids := make([]int64, 0, len(body.Order))
	for _, v := range body.Order {
		ids = append(ids, int64(v.Uint64()))
	}

	newVersion, affectedRows, err := services.SaveCollectionOrder(h.DB, id, body.Version.Uint64(), ids)
	if err != nil {
		if strings.Contains(err.Error(), "E_VERSION") {
			return utils.VersionErrorResponse(c)
		}
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Collection '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveCollectionOrder")
	}
	return utils.MutationSuccessResponse(c, newVersion, affectedRows)
}
