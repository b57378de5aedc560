// handlers_test.go
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
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.Collection{},
		&models.Artwork{},
		&models.SiteConfig{},
		&models.SiteContent{},
		&models.Subscriber{},
		&models.Exhibition{},
		&models.UserProfile{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func jsonColumn(t *testing.T, v interface{}) models.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return models.JSON{JSON: datatypes.JSON(raw)}
}

// TestGetRootStructure tests GET /api/gallery/structure: manifest order
// governs, the unlisted root artwork is appended after the listed entries.
func TestGetRootStructure(t *testing.T) {
	db := setupTestDB(t)

	col := models.Collection{ID: "11111111-1111-1111-1111-111111111111", Title: "Seascapes"}
	db.Create(&col)
	listed := models.Artwork{ID: 5, Title: "listed"}
	db.Create(&listed)
	orphan := models.Artwork{ID: 9, Title: "orphan"}
	db.Create(&orphan)

	cfg := models.SiteConfig{
		RootStructure:    jsonColumn(t, []string{"collection:" + col.ID, "artwork:5"}),
		StructureVersion: 3,
	}
	db.Create(&cfg)

	app := fiber.New()
	handler := &handlers.GalleryHandler{DB: db}
	app.Get("/api/gallery/structure", handler.GetRootStructure)

	req := httptest.NewRequest("GET", "/api/gallery/structure", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Version string `json:"version"`
		Entries []struct {
			Key string `json:"key"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Version != "3" {
		t.Errorf("Expected version \"3\", got %q", result.Version)
	}
	want := []string{"collection:" + col.ID, "artwork:5", "artwork:9"}
	if len(result.Entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(result.Entries))
	}
	for i, w := range want {
		if result.Entries[i].Key != w {
			t.Errorf("Entry %d: expected key %q, got %q", i, w, result.Entries[i].Key)
		}
	}
}

// TestGetCollectionArtworks tests GET /api/gallery/collections/:id/artworks
func TestGetCollectionArtworks(t *testing.T) {
	db := setupTestDB(t)

	col := models.Collection{
		ID:           "22222222-2222-2222-2222-222222222222",
		Title:        "Portraits",
		ArtworkOrder: jsonColumn(t, []int64{2, 1}),
		OrderVersion: 4,
	}
	db.Create(&col)
	for _, a := range []models.Artwork{
		{ID: 1, Title: "one", CollectionID: &col.ID},
		{ID: 2, Title: "two", CollectionID: &col.ID},
		{ID: 3, Title: "three", CollectionID: &col.ID},
	} {
		db.Create(&a)
	}

	app := fiber.New()
	handler := &handlers.GalleryHandler{DB: db}
	app.Get("/api/gallery/collections/:id/artworks", handler.GetCollectionArtworks)

	req := httptest.NewRequest("GET", "/api/gallery/collections/"+col.ID+"/artworks", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Version  string           `json:"version"`
		Artworks []models.Artwork `json:"artworks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Version != "4" {
		t.Errorf("Expected version \"4\", got %q", result.Version)
	}
	// Manifest order 2, 1; artwork 3 recovered after the listed ones.
	want := []int64{2, 1, 3}
	if len(result.Artworks) != len(want) {
		t.Fatalf("Expected %d artworks, got %d", len(want), len(result.Artworks))
	}
	for i, w := range want {
		if result.Artworks[i].ID != w {
			t.Errorf("Artwork %d: expected id %d, got %d", i, w, result.Artworks[i].ID)
		}
	}
}

// TestNotFound tests 404 on an unknown collection
func TestNotFound(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.GalleryHandler{DB: db}
	app.Get("/api/gallery/collections/:id/artworks", handler.GetCollectionArtworks)

	req := httptest.NewRequest("GET", "/api/gallery/collections/nonexistent/artworks", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

// TestGetFeed tests GET /api/gallery/feed: collections expand in place.
func TestGetFeed(t *testing.T) {
	db := setupTestDB(t)

	col := models.Collection{
		ID:           "33333333-3333-3333-3333-333333333333",
		Title:        "Studies",
		ArtworkOrder: jsonColumn(t, []int64{11, 10}),
	}
	db.Create(&col)
	for _, a := range []models.Artwork{
		{ID: 10, Title: "child-b", CollectionID: &col.ID},
		{ID: 11, Title: "child-a", CollectionID: &col.ID},
		{ID: 20, Title: "root"},
	} {
		db.Create(&a)
	}
	cfg := models.SiteConfig{
		RootStructure: jsonColumn(t, []string{"artwork:20", "collection:" + col.ID}),
	}
	db.Create(&cfg)

	app := fiber.New()
	handler := &handlers.GalleryHandler{DB: db}
	app.Get("/api/gallery/feed", handler.GetFeed)

	req := httptest.NewRequest("GET", "/api/gallery/feed", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var feed []models.Artwork
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	want := []int64{20, 11, 10}
	if len(feed) != len(want) {
		t.Fatalf("Expected %d artworks, got %d", len(want), len(feed))
	}
	for i, w := range want {
		if feed[i].ID != w {
			t.Errorf("Feed %d: expected id %d, got %d", i, w, feed[i].ID)
		}
	}
}

// TestSaveRootOrder tests POST /api/library/order/root, including pruning
// of keys whose rows no longer exist.
func TestSaveRootOrder(t *testing.T) {
	db := setupTestDB(t)

	art := models.Artwork{ID: 7, Title: "kept"}
	db.Create(&art)

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/order/root", handler.SaveRootOrder)

	reqBody := map[string]interface{}{
		"version":   0,
		"structure": []string{"artwork:7", "artwork:9999"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/library/order/root", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["ok"] != true {
		t.Error("Expected ok=true in response")
	}
	if result["newVersion"] != "1" {
		t.Errorf("Expected newVersion \"1\", got %v", result["newVersion"])
	}

	// The dangling artwork:9999 key must not have been persisted.
	var cfg models.SiteConfig
	if err := db.First(&cfg).Error; err != nil {
		t.Fatal(err)
	}
	var stored []string
	if err := json.Unmarshal(cfg.RootStructure.JSON, &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0] != "artwork:7" {
		t.Errorf("Expected stored manifest [artwork:7], got %v", stored)
	}
}

// TestSaveRootOrderVersionConflict tests version conflict detection
func TestSaveRootOrderVersionConflict(t *testing.T) {
	db := setupTestDB(t)

	cfg := models.SiteConfig{StructureVersion: 2}
	db.Create(&cfg)

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/order/root", handler.SaveRootOrder)

	reqBody := map[string]interface{}{
		"version":   1, // stale (current is 2)
		"structure": []string{},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/library/order/root", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("Expected status 409 (version conflict), got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["versionError"] != true {
		t.Error("Expected versionError=true in response")
	}
}

// TestSaveCollectionOrder tests POST /api/library/order/collections/:id
func TestSaveCollectionOrder(t *testing.T) {
	db := setupTestDB(t)

	col := models.Collection{ID: "44444444-4444-4444-4444-444444444444", Title: "Sketches"}
	db.Create(&col)
	for _, a := range []models.Artwork{
		{ID: 1, Title: "one", CollectionID: &col.ID},
		{ID: 2, Title: "two", CollectionID: &col.ID},
	} {
		db.Create(&a)
	}

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/order/collections/:id", handler.SaveCollectionOrder)

	// Numeric strings are accepted alongside numbers, matching legacy rows.
	reqBody := map[string]interface{}{
		"version": 0,
		"order":   []interface{}{"2", 1, 9999},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/library/order/collections/"+col.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var stored models.Collection
	if err := db.First(&stored, "id = ?", col.ID).Error; err != nil {
		t.Fatal(err)
	}
	var ids []int64
	if err := json.Unmarshal(stored.ArtworkOrder.JSON, &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("Expected stored order [2 1], got %v", ids)
	}
	if stored.OrderVersion != 1 {
		t.Errorf("Expected order version 1, got %d", stored.OrderVersion)
	}
}

// TestCreateCollectionAppendsToRoot: a new collection lands at the end of
// the root structure.
func TestCreateCollectionAppendsToRoot(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/collections", handler.CreateCollection)

	body, _ := json.Marshal(map[string]string{"title": "New Works"})
	req := httptest.NewRequest("POST", "/api/library/collections", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var created models.Collection
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected generated collection id")
	}

	var cfg models.SiteConfig
	if err := db.First(&cfg).Error; err != nil {
		t.Fatal(err)
	}
	var stored []string
	if err := json.Unmarshal(cfg.RootStructure.JSON, &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0] != "collection:"+created.ID {
		t.Errorf("Expected root manifest [collection:%s], got %v", created.ID, stored)
	}
}

// TestRegisterArtworksAppendsToCollection: a batch insert appends the new
// ids to the collection's artwork order.
func TestRegisterArtworksAppendsToCollection(t *testing.T) {
	db := setupTestDB(t)

	col := models.Collection{ID: "55555555-5555-5555-5555-555555555555", Title: "Prints"}
	db.Create(&col)

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/artworks", handler.RegisterArtworks)

	reqBody := map[string]interface{}{
		"collectionId": col.ID,
		"artworks": []map[string]string{
			{"title": "first", "medium": "oil"},
			{"title": "second", "medium": "ink"},
		},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/library/artworks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var created []models.Artwork
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 artworks, got %d", len(created))
	}

	var stored models.Collection
	if err := db.First(&stored, "id = ?", col.ID).Error; err != nil {
		t.Fatal(err)
	}
	var ids []int64
	if err := json.Unmarshal(stored.ArtworkOrder.JSON, &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != created[0].ID || ids[1] != created[1].ID {
		t.Errorf("Expected order %v, got %v", []int64{created[0].ID, created[1].ID}, ids)
	}
}
