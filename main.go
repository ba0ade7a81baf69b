package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"assetmanager/backend/api"
	"assetmanager/backend/database"
	"assetmanager/backend/middleware"
	"assetmanager/backend/migrations"
	"assetmanager/backend/security"
	"assetmanager/backend/services"
	"assetmanager/backend/warranty"
)

func main() {
	// Parse command line flags
	noExit := flag.Bool("no-exit", false, "Don't exit after database reset")
	resetDB := flag.Bool("reset-db", false, "Force reset the database")
	flag.Parse()

	// Check if we're running in database reset mode
	isResetDB := os.Getenv("RESET_DB") == "true" || *resetDB

	// Check environment
	isDevelopment := os.Getenv("APP_ENV") != "production" &&
		os.Getenv("ENVIRONMENT") != "production" &&
		os.Getenv("ENV") != "production"

	if isResetDB {
		log.Println("Running in database reset mode")
	}

	if isDevelopment {
		log.Println("Running in development environment")
	}

	// Use an encryption key from environment or generate a default one
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		log.Println("Warning: ENCRYPTION_KEY not set, using a default key. This is NOT secure for production!")
		encryptionKey = "default-key-for-development-only"
	}
	security.InitializeEncryption(encryptionKey)

	// Load environment variables from .env if present
	services.LoadEnvVariables()

	// Initialize database
	err := database.InitDB()
	if err != nil {
		log.Fatal(err)
	}

	// Run migrations (including test data seeding if in dev environment)
	log.Println("Running migrations...")
	err = migrations.RunMigrations(database.DB)
	if err != nil {
		log.Printf("Warning: Failed to run migrations: %v", err)
	}

	// Make sure at least one admin exists so the system is administrable
	if err := database.SeedBootstrapAdmin(); err != nil {
		log.Printf("Warning: Failed to seed bootstrap admin: %v", err)
	}

	// If running in reset mode, exit after database setup is complete
	// unless --no-exit flag is provided
	if isResetDB && !*noExit {
		log.Println("Database reset completed successfully. Exiting.")
		return
	}

	// Initialize Firebase Admin SDK
	log.Println("Initializing Firebase Admin SDK...")
	err = middleware.InitializeFirebase()
	if err != nil {
		log.Printf("Warning: Failed to initialize Firebase: %v", err)
		log.Println("Auth token verification will be disabled!")
	}

	// Initialize the warranty gateway config and client
	if err := warranty.InitWarranty(); err != nil {
		log.Printf("Warning: Failed to initialize warranty config: %v", err)
	}

	timeoutSeconds := 0
	if config, err := warranty.GetConfig(); err == nil {
		timeoutSeconds = config.TimeoutSeconds
	} else {
		log.Printf("Warning: Failed to read warranty config, using default timeout: %v", err)
	}
	warrantyClient := warranty.NewClient(timeoutSeconds)

	server := api.NewServer(database.DB, warrantyClient)

	// Configure the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Handler:      server.Handler(),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start the server
	log.Printf("Starting server on port %s...", port)
	log.Fatal(srv.ListenAndServe())
}
