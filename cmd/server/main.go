// main.go
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

package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/atelier-studio/portfoliodb/internal/config"
	"github.com/atelier-studio/portfoliodb/internal/database"
	"github.com/atelier-studio/portfoliodb/internal/handlers"
	"github.com/atelier-studio/portfoliodb/internal/middleware"
	"github.com/atelier-studio/portfoliodb/internal/storage"
	"github.com/atelier-studio/portfoliodb/internal/types"

	_ "github.com/atelier-studio/portfoliodb/docs/api" // Swagger docs
)

// @title PortfolioDB API
// @version 1.0.0
// @description Go Fiber data service for the atelier portfolio site and admin console
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/atelier-studio/portfoliodb
// @contact.email dev@atelier-studio.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect object storage for artwork images, when configured
	var imageStore *storage.ImageStore
	if cfg.StorageEndpoint != "" {
		imageStore, err = storage.NewImageStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		log.Printf("Object storage connected: %s/%s", cfg.StorageEndpoint, cfg.StorageBucket)
	} else {
		log.Printf("Object storage not configured; image upload disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("portfoliodb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	galleryHandler := &handlers.GalleryHandler{DB: db}
	libraryHandler := &handlers.LibraryHandler{DB: db, Storage: imageStore}
	siteHandler := &handlers.SiteHandler{DB: db}

	// Public gallery routes
	gallery := api.Group("/gallery")
	gallery.Get("/structure", galleryHandler.GetRootStructure)
	gallery.Get("/feed", galleryHandler.GetFeed)
	gallery.Get("/collections/:id/artworks", galleryHandler.GetCollectionArtworks)
	gallery.Post("/artworks/:id/view", galleryHandler.RecordArtworkView)

	// Admin library routes
	library := api.Group("/library", middleware.AuthAdmin(cfg))
	library.Post("/collections", libraryHandler.CreateCollection)
	library.Delete("/collections/:id", libraryHandler.DeleteCollection)
	library.Post("/artworks", libraryHandler.RegisterArtworks)
	library.Delete("/artworks/:id", libraryHandler.DeleteArtwork)
	library.Post("/images", libraryHandler.UploadImage)
	library.Post("/order/root", libraryHandler.SaveRootOrder)
	library.Post("/order/collections/:id", libraryHandler.SaveCollectionOrder)

	// Site routes (public GET + subscribe, admin mutations)
	site := api.Group("/site")
	site.Get("/settings", siteHandler.GetSettings)
	site.Get("/content", siteHandler.GetContent)
	site.Get("/exhibitions", siteHandler.ListExhibitions)
	site.Post("/subscribe", siteHandler.Subscribe)

	site.Post("/settings", middleware.AuthAdmin(cfg), siteHandler.UpdateSettings)
	site.Post("/content", middleware.AuthAdmin(cfg), siteHandler.UpdateContent)
	site.Post("/exhibitions", middleware.AuthAdmin(cfg), siteHandler.SaveExhibition)
	site.Delete("/exhibitions/:id", middleware.AuthAdmin(cfg), siteHandler.DeleteExhibition)
	site.Get("/subscribers", middleware.AuthAdmin(cfg), siteHandler.ListSubscribers)
	site.Delete("/subscribers/:id", middleware.AuthAdmin(cfg), siteHandler.DeleteSubscriber)
	site.Get("/users", middleware.AuthAdmin(cfg), siteHandler.ListUsers)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Authorizer client creation needs the request host, so it is deferred
	// to the first authenticated request
	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check if it's an authorization error
	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	}

	// Check for version errors
	versionError := false
	if code == fiber.StatusConflict || strings.HasPrefix(message, "E_VERSION") {
		versionError = true
		errorType = "version"
		code = fiber.StatusConflict
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       code,
		"message":      message,
		"ok":           false,
		"versionError": versionError,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         errorType,
	})
}
