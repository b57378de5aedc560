// site.go
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
	"strings"

	"github.com/atelier-studio/portfoliodb/internal/models"
	"github.com/atelier-studio/portfoliodb/internal/services"
	"github.com/atelier-studio/portfoliodb/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SiteHandler handles site configuration, page copy, exhibitions,
// newsletter subscribers, and the admin-account read model.
type SiteHandler struct {
	DB *gorm.DB
}

// GetSettings handles GET /api/site/settings
// @Summary Get site settings
// @Description Get the header and footer settings blobs
// @Tags Site
// @Produce json
// @Success 200 {object} models.SiteConfig
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/settings [get]
func (h *SiteHandler) GetSettings(c *fiber.Ctx) error {
	cfg, err := services.GetSiteConfig(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getSettings")
	}
	return c.Status(fiber.StatusOK).JSON(cfg)
}

// UpdateSettings handles POST /api/site/settings
// @Summary Update site settings
// @Description Replace the header and/or footer settings blobs
// @Tags Site
// @Accept json
// @Produce json
// @Param body body object true "Header and footer settings"
// @Success 200 {object} models.SiteConfig
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/settings [post]
func (h *SiteHandler) UpdateSettings(c *fiber.Ctx) error {
	var body struct {
		Header map[string]interface{} `json:"header"`
		Footer map[string]interface{} `json:"footer"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "site.validation.input")
	}

	cfg, err := services.UpdateSiteSettings(h.DB, body.Header, body.Footer)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateSettings")
	}
	return c.Status(fiber.StatusOK).JSON(cfg)
}

// GetContent handles GET /api/site/content
// @Summary Get site content
// @Description Get the hero and about page copy
// @Tags Site
// @Produce json
// @Success 200 {object} models.SiteContent
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/content [get]
func (h *SiteHandler) GetContent(c *fiber.Ctx) error {
	content, err := services.GetSiteContent(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getContent")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

// UpdateContent handles POST /api/site/content
// @Summary Update site content
// @Description Patch the hero and about page copy; omitted fields are unchanged
// @Tags Site
// @Accept json
// @Produce json
// @Param body body services.SiteContentInput true "Fields to update"
// @Success 200 {object} models.SiteContent
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/content [post]
func (h *SiteHandler) UpdateContent(c *fiber.Ctx) error {
	var patch services.SiteContentInput
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "site.validation.input")
	}

	content, err := services.UpdateSiteContent(h.DB, patch)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateContent")
	}
	return c.Status(fiber.StatusOK).JSON(content)
}

// ListExhibitions handles GET /api/site/exhibitions
// @Summary List exhibitions
// @Description List exhibitions, newest first
// @Tags Site
// @Produce json
// @Success 200 {array} models.Exhibition
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/exhibitions [get]
func (h *SiteHandler) ListExhibitions(c *fiber.Ctx) error {
	exhibitions, err := services.ListExhibitions(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listExhibitions")
	}
	return c.Status(fiber.StatusOK).JSON(exhibitions)
}

// SaveExhibition handles POST /api/site/exhibitions
// @Summary Create or update an exhibition
// @Description Create the exhibition when id is absent, update it otherwise
// @Tags Site
// @Accept json
// @Produce json
// @Param body body models.Exhibition true "Exhibition"
// @Success 200 {object} models.Exhibition
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/exhibitions [post]
func (h *SiteHandler) SaveExhibition(c *fiber.Ctx) error {
	var ex models.Exhibition
	if err := c.BodyParser(&ex); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "site.validation.input")
	}
	if strings.TrimSpace(ex.Title) == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "site.validation.input")
	}

	if err := services.SaveExhibition(h.DB, &ex); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Exhibition '%d' not found", ex.ID))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveExhibition")
	}
	return c.Status(fiber.StatusOK).JSON(ex)
}

// DeleteExhibition handles DELETE /api/site/exhibitions/:id
// @Summary Delete an exhibition
// @Tags Site
// @Produce json
// @Param id path int true "Exhibition ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/exhibitions/{id} [delete]
func (h *SiteHandler) DeleteExhibition(c *fiber.Ctx) error {
	id, err := parseRecordID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid exhibition id", fiber.StatusBadRequest, "site.validation.input")
	}

	if err := services.DeleteExhibition(h.DB, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Exhibition '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteExhibition")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Subscribe handles POST /api/site/subscribe
// @Summary Subscribe to the newsletter
// @Description Record a signup; a duplicate email gets a distinct 409
// @Tags Site
// @Accept json
// @Produce json
// @Param body body object true "Email"
// @Success 201 {object} models.Subscriber
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/subscribe [post]
func (h *SiteHandler) Subscribe(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "site.validation.input")
	}
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		return utils.ErrorResponse(c, "Invalid email", fiber.StatusBadRequest, "site.validation.input")
	}

	sub, err := services.AddSubscriber(h.DB, body.Email)
	if err != nil {
		if err.Error() == "duplicate email" {
			return utils.ErrorResponse(c, "Email is already subscribed", fiber.StatusConflict, "site.subscribe.duplicate")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "subscribe")
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// ListSubscribers handles GET /api/site/subscribers
// @Summary List newsletter subscribers
// @Tags Site
// @Produce json
// @Success 200 {array} models.Subscriber
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/subscribers [get]
func (h *SiteHandler) ListSubscribers(c *fiber.Ctx) error {
	subs, err := services.ListSubscribers(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listSubscribers")
	}
	return c.Status(fiber.StatusOK).JSON(subs)
}

// DeleteSubscriber handles DELETE /api/site/subscribers/:id
// @Summary Delete a subscriber
// @Tags Site
// @Produce json
// @Param id path int true "Subscriber ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/subscribers/{id} [delete]
func (h *SiteHandler) DeleteSubscriber(c *fiber.Ctx) error {
	id, err := parseRecordID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid subscriber id", fiber.StatusBadRequest, "site.validation.input")
	}

	if err := services.DeleteSubscriber(h.DB, id); err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, fmt.Sprintf("Subscriber '%d' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteSubscriber")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /api/site/users
// @Summary List admin account profiles
// @Description List the local read model of console accounts; account lifecycle lives at the auth provider
// @Tags Site
// @Produce json
// @Success 200 {array} models.UserProfile
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /site/users [get]
func (h *SiteHandler) ListUsers(c *fiber.Ctx) error {
	profiles, err := services.ListUserProfiles(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listUsers")
	}
	return c.Status(fiber.StatusOK).JSON(profiles)
}
