package integration_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/atelier-studio/portfoliodb/internal/config"
	"github.com/atelier-studio/portfoliodb/internal/database"
	"github.com/atelier-studio/portfoliodb/internal/handlers"
	"github.com/atelier-studio/portfoliodb/internal/services"
	"github.com/atelier-studio/portfoliodb/tests/helpers"
	"github.com/gofiber/fiber/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the service with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("CreateAndResolveLibrary", func(t *testing.T) {
		testCreateAndResolveLibrary(t, db)
	})

	t.Run("OrphanRecovery", func(t *testing.T) {
		testOrphanRecovery(t, db)
	})

	t.Run("VersionControl", func(t *testing.T) {
		testVersionControl(t, db)
	})

	t.Run("HandlerVersionConflict", func(t *testing.T) {
		testHandlerVersionConflict(t, db)
	})
}

// TestWithPostgreSQL tests the service with a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("POSTGRES_IMAGE"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	// Get container host and port
	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(2 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("CreateAndResolveLibrary", func(t *testing.T) {
		testCreateAndResolveLibrary(t, db)
	})

	t.Run("OrphanRecovery", func(t *testing.T) {
		testOrphanRecovery(t, db)
	})

	t.Run("VersionControl", func(t *testing.T) {
		testVersionControl(t, db)
	})

	t.Run("HandlerVersionConflict", func(t *testing.T) {
		testHandlerVersionConflict(t, db)
	})
}

// testCreateAndResolveLibrary creates a collection with artworks and resolves
// both the root structure and the collection's artwork order
func testCreateAndResolveLibrary(t *testing.T, db *gorm.DB) {
	col, err := services.CreateCollection(db, "Paintings")
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	arts, err := services.RegisterArtworks(db, &col.ID, []services.ArtworkInput{
		{Title: "Morning Light", Medium: "oil on canvas"},
		{Title: "Harbor Study", Medium: "watercolor"},
	})
	if err != nil {
		t.Fatalf("Failed to register artworks: %v", err)
	}
	if len(arts) != 2 {
		t.Fatalf("Expected 2 artworks, got %d", len(arts))
	}

	// The new collection must appear in the root structure
	entries, _, err := services.ResolveRootEntries(db)
	if err != nil {
		t.Fatalf("Failed to resolve root entries: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Collection != nil && e.Collection.ID == col.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected collection %s in root structure", col.ID)
	}

	// Artworks resolve in registration order
	resolved, version, err := services.ResolveCollectionArtworks(db, col.ID)
	if err != nil {
		t.Fatalf("Failed to resolve collection artworks: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected order version 1, got %d", version)
	}
	if len(resolved) != 2 {
		t.Fatalf("Expected 2 resolved artworks, got %d", len(resolved))
	}
	if resolved[0].ID != arts[0].ID || resolved[1].ID != arts[1].ID {
		t.Errorf("Expected order [%d %d], got [%d %d]", arts[0].ID, arts[1].ID, resolved[0].ID, resolved[1].ID)
	}
}

// testOrphanRecovery verifies that an artwork missing from the manifest still
// resolves, appended after the ordered items
func testOrphanRecovery(t *testing.T, db *gorm.DB) {
	col, err := services.CreateCollection(db, "Archive")
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	arts, err := services.RegisterArtworks(db, &col.ID, []services.ArtworkInput{
		{Title: "First"},
		{Title: "Second"},
	})
	if err != nil {
		t.Fatalf("Failed to register artworks: %v", err)
	}

	// Insert a row directly, bypassing the manifest append
	helpers.CreateTestArtwork(t, db, 9001, &col.ID, "Orphan")

	resolved, version, err := services.ResolveCollectionArtworks(db, col.ID)
	if err != nil {
		t.Fatalf("Failed to resolve collection artworks: %v", err)
	}
	if len(resolved) != 3 {
		t.Fatalf("Expected 3 resolved artworks, got %d", len(resolved))
	}
	if resolved[0].ID != arts[0].ID || resolved[1].ID != arts[1].ID {
		t.Errorf("Manifest order not preserved: got [%d %d]", resolved[0].ID, resolved[1].ID)
	}
	if resolved[2].Title != "Orphan" {
		t.Errorf("Expected orphan appended last, got %q", resolved[2].Title)
	}

	// Resolution is read only, the stored version must not move
	if version != 1 {
		t.Errorf("Expected order version 1, got %d", version)
	}
}

// testVersionControl tests optimistic locking on order writes
func testVersionControl(t *testing.T, db *gorm.DB) {
	col, err := services.CreateCollection(db, "Sculpture")
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	arts, err := services.RegisterArtworks(db, &col.ID, []services.ArtworkInput{
		{Title: "One"},
		{Title: "Two"},
		{Title: "Three"},
	})
	if err != nil {
		t.Fatalf("Failed to register artworks: %v", err)
	}

	// Try to save with a stale version
	_, _, err = services.SaveCollectionOrder(db, col.ID, 0, []int64{arts[2].ID, arts[0].ID, arts[1].ID})
	if err == nil {
		t.Error("Expected version conflict error")
	}
	if !strings.Contains(err.Error(), "E_VERSION") {
		t.Errorf("Expected E_VERSION error, got: %v", err)
	}

	// Save with the current version; a dangling id must be pruned
	newVersion, _, err := services.SaveCollectionOrder(db, col.ID, 1, []int64{arts[2].ID, arts[0].ID, arts[1].ID, 99999})
	if err != nil {
		t.Fatalf("Failed to save with correct version: %v", err)
	}
	if newVersion != 2 {
		t.Errorf("Expected new version 2, got %d", newVersion)
	}

	resolved, version, err := services.ResolveCollectionArtworks(db, col.ID)
	if err != nil {
		t.Fatalf("Failed to resolve collection artworks: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected order version 2, got %d", version)
	}
	if len(resolved) != 3 {
		t.Fatalf("Expected 3 resolved artworks after prune, got %d", len(resolved))
	}
	if resolved[0].ID != arts[2].ID || resolved[1].ID != arts[0].ID || resolved[2].ID != arts[1].ID {
		t.Errorf("Expected saved order [%d %d %d], got [%d %d %d]",
			arts[2].ID, arts[0].ID, arts[1].ID, resolved[0].ID, resolved[1].ID, resolved[2].ID)
	}
}

// TestHealthCheck tests the health check functionality
func TestHealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:     "mysql",
		DBHost:     host,
		DBPort:     port.Port(),
		DBDatabase: "testdb",
		DBUser:     "testuser",
		DBPassword: "testpass",
		AuthzURL:   "http://localhost:9999", // Non-existent service
	}

	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run health check
	result := services.HealthCheck(cfg, db)

	// Database should be healthy
	if result.Database != "ok" {
		t.Errorf("Expected database to be ok, got: %s", result.Database)
	}

	// Authorizer should be unreachable
	if result.Authorizer != "unreachable" {
		t.Errorf("Expected authorizer to be unreachable, got: %s", result.Authorizer)
	}

	// Overall status should be unhealthy
	if result.Status != "unhealthy" {
		t.Errorf("Expected status to be unhealthy, got: %s", result.Status)
	}
}

// testHandlerVersionConflict tests the handler's 409 response with a real database
func testHandlerVersionConflict(t *testing.T, db *gorm.DB) {
	col, err := services.CreateCollection(db, "Drawings")
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	arts, err := services.RegisterArtworks(db, &col.ID, []services.ArtworkInput{
		{Title: "Sketch"},
	})
	if err != nil {
		t.Fatalf("Failed to register artworks: %v", err)
	}

	app := fiber.New()
	handler := &handlers.LibraryHandler{DB: db}
	app.Post("/api/library/order/collections/:id", handler.SaveCollectionOrder)

	body := strings.NewReader(fmt.Sprintf(`{"version": "5", "order": [%d]}`, arts[0].ID))
	req := httptest.NewRequest("POST", "/api/library/order/collections/"+col.ID, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 409)

	var payload map[string]interface{}
	helpers.ParseJSON(t, resp, &payload)
	if payload["versionError"] != true {
		t.Errorf("Expected versionError true, got: %v", payload["versionError"])
	}
}
