// site_handlers_test.go
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

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/atelier-studio/portfoliodb/internal/handlers"
	"github.com/atelier-studio/portfoliodb/internal/models"
	"github.com/gofiber/fiber/v2"
)

// TestSubscribe tests POST /api/site/subscribe
func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Post("/api/site/subscribe", handler.Subscribe)

	body, _ := json.Marshal(map[string]string{"email": "Collector@Example.com"})
	req := httptest.NewRequest("POST", "/api/site/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var sub models.Subscriber
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if sub.Email != "collector@example.com" {
		t.Errorf("Expected normalized email, got %q", sub.Email)
	}
}

// TestSubscribeDuplicate: a repeat signup gets a distinct 409, not a
// generic failure.
func TestSubscribeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Subscriber{Email: "collector@example.com"})

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Post("/api/site/subscribe", handler.Subscribe)

	body, _ := json.Marshal(map[string]string{"email": "collector@example.com"})
	req := httptest.NewRequest("POST", "/api/site/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("Expected status 409, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["type"] != "site.subscribe.duplicate" {
		t.Errorf("Expected duplicate error type, got %v", result["type"])
	}
}

// TestSubscribeRejectsInvalidEmail tests input validation
func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Post("/api/site/subscribe", handler.Subscribe)

	body, _ := json.Marshal(map[string]string{"email": "not-an-email"})
	req := httptest.NewRequest("POST", "/api/site/subscribe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestSiteContentRoundTrip: the content row is created on first read and
// patched field by field.
func TestSiteContentRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Get("/api/site/content", handler.GetContent)
	app.Post("/api/site/content", handler.UpdateContent)

	// First read creates the singleton.
	req := httptest.NewRequest("GET", "/api/site/content", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	// Patch one field.
	body, _ := json.Marshal(map[string]string{"heroTitle": "Recent Work"})
	post := httptest.NewRequest("POST", "/api/site/content", bytes.NewReader(body))
	post.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(post)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var content models.SiteContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if content.HeroTitle != "Recent Work" {
		t.Errorf("Expected patched hero title, got %q", content.HeroTitle)
	}

	// Only one row ever exists.
	var count int64
	db.Model(&models.SiteContent{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 site_content row, got %d", count)
	}
}

// TestExhibitionLifecycle tests create, update, list, delete
func TestExhibitionLifecycle(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Get("/api/site/exhibitions", handler.ListExhibitions)
	app.Post("/api/site/exhibitions", handler.SaveExhibition)
	app.Delete("/api/site/exhibitions/:id", handler.DeleteExhibition)

	body, _ := json.Marshal(map[string]string{"title": "Winter Group Show", "year": "2026"})
	req := httptest.NewRequest("POST", "/api/site/exhibitions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var created models.Exhibition
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected assigned exhibition id")
	}

	req = httptest.NewRequest("GET", "/api/site/exhibitions", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var listed []models.Exhibition
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Winter Group Show" {
		t.Fatalf("Unexpected listing: %v", listed)
	}

	req = httptest.NewRequest("DELETE", "/api/site/exhibitions/1", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Errorf("Expected status 204, got %d", resp.StatusCode)
	}
}

// TestExhibitionUpdateClearsFields tests that an update can blank a field
func TestExhibitionUpdateClearsFields(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.SiteHandler{DB: db}
	app.Post("/api/site/exhibitions", handler.SaveExhibition)

	db.Create(&models.Exhibition{
		Title:    "Coastal Light",
		Location: "Pier Gallery",
		Dates:    "Mar 3 - Apr 1",
		Year:     "2026",
		Link:     "https://example.com/coastal",
	})

	body, _ := json.Marshal(map[string]interface{}{
		"id":    1,
		"title": "Coastal Light",
		"year":  "2026",
	})
	req := httptest.NewRequest("POST", "/api/site/exhibitions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var stored models.Exhibition
	if err := db.First(&stored, 1).Error; err != nil {
		t.Fatalf("Failed to load exhibition: %v", err)
	}
	if stored.Location != "" || stored.Dates != "" || stored.Link != "" {
		t.Errorf("Expected cleared fields, got location=%q dates=%q link=%q",
			stored.Location, stored.Dates, stored.Link)
	}
	if stored.Title != "Coastal Light" || stored.Year != "2026" {
		t.Errorf("Unexpected kept fields: %+v", stored)
	}
}

// TestRecordArtworkView tests the atomic view-count increment
func TestRecordArtworkView(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Artwork{ID: 6, Title: "counted"})

	app := fiber.New()
	handler := &handlers.GalleryHandler{DB: db}
	app.Post("/api/gallery/artworks/:id/view", handler.RecordArtworkView)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/gallery/artworks/6/view", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 204 {
			t.Fatalf("Expected status 204, got %d", resp.StatusCode)
		}
	}

	var art models.Artwork
	if err := db.First(&art, 6).Error; err != nil {
		t.Fatal(err)
	}
	if art.ViewCount != 3 {
		t.Errorf("Expected view count 3, got %d", art.ViewCount)
	}

	// Unknown artwork is a 404.
	req := httptest.NewRequest("POST", "/api/gallery/artworks/9999/view", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
