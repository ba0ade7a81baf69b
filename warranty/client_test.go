package warranty

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
	"assetmanager/backend/security"

	_ "github.com/mattn/go-sqlite3"
)

func setupWarrantyTest(t *testing.T, apiURL string) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	database.DB = db

	security.InitializeEncryption("test-encryption-key")

	if err := InitWarranty(); err != nil {
		t.Fatal(err)
	}
	if err := SaveConfig(apiURL, "test-api-key", 5); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterSuccess(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"confirmation": "WR-1234"}`))
	}))
	defer server.Close()

	setupWarrantyTest(t, server.URL)
	defer database.DB.Close()

	client := NewClient(5)
	ack, err := client.Register(context.Background(), 42, "Laptop", "Test User")
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	if !ack.Registered {
		t.Error("Expected registered true")
	}
	if ack.Confirmation != "WR-1234" {
		t.Errorf("Expected confirmation 'WR-1234', got '%s'", ack.Confirmation)
	}
	if gotKey != "test-api-key" {
		t.Errorf("Expected decrypted API key on the wire, got '%s'", gotKey)
	}
}

func TestRegisterUpstreamErrorIsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "registration backend down"}`))
	}))
	defer server.Close()

	setupWarrantyTest(t, server.URL)
	defer database.DB.Close()

	client := NewClient(5)
	_, err := client.Register(context.Background(), 42, "Laptop", "Test User")

	var gatewayErr *models.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %T: %v", err, err)
	}
	if gatewayErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected upstream status 500, got %d", gatewayErr.StatusCode)
	}
	if gatewayErr.Detail != "registration backend down" {
		t.Errorf("Expected upstream detail, got '%s'", gatewayErr.Detail)
	}

	// A failed registration must not leave the asset locked
	if client.RegistrationInFlight(42) {
		t.Error("Expected in-flight flag cleared after failure")
	}
}

func TestRegisterMessageFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "try again later"}`))
	}))
	defer server.Close()

	setupWarrantyTest(t, server.URL)
	defer database.DB.Close()

	client := NewClient(5)
	_, err := client.Register(context.Background(), 7, "Printer", "Test User")

	var gatewayErr *models.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %T", err)
	}
	if gatewayErr.Detail != "try again later" {
		t.Errorf("Expected message fallback in detail, got '%s'", gatewayErr.Detail)
	}
}

func TestRegisterUnreachableService(t *testing.T) {
	setupWarrantyTest(t, "http://127.0.0.1:1")
	defer database.DB.Close()

	client := NewClient(1)
	_, err := client.Register(context.Background(), 42, "Laptop", "Test User")

	var gatewayErr *models.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %T: %v", err, err)
	}
	if gatewayErr.StatusCode != 0 {
		t.Errorf("Expected no upstream status for a network failure, got %d", gatewayErr.StatusCode)
	}
}

func TestRegisterUnconfigured(t *testing.T) {
	setupWarrantyTest(t, "")
	defer database.DB.Close()

	client := NewClient(5)
	_, err := client.Register(context.Background(), 42, "Laptop", "Test User")

	var gatewayErr *models.GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected GatewayError, got %T: %v", err, err)
	}
	if gatewayErr.Detail != "warranty service is not configured" {
		t.Errorf("Unexpected detail: %s", gatewayErr.Detail)
	}
}

func TestRegisterSameAssetSerialized(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body registration
		json.NewDecoder(r.Body).Decode(&body)
		if body.AssetID == 42 {
			<-release
		}
		w.Write([]byte(`{"confirmation": "WR-1"}`))
	}))
	defer server.Close()

	setupWarrantyTest(t, server.URL)
	defer database.DB.Close()

	client := NewClient(5)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.Register(context.Background(), 42, "Laptop", "Test User")
	}()

	// Wait for the first registration to take the in-flight slot
	deadline := time.Now().Add(2 * time.Second)
	for !client.RegistrationInFlight(42) {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("First registration never became in-flight")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := client.Register(context.Background(), 42, "Laptop", "Test User")
	if err != ErrRegistrationInFlight {
		t.Errorf("Expected ErrRegistrationInFlight, got %v", err)
	}

	// A different asset is not blocked
	_, err = client.Register(context.Background(), 43, "Monitor", "Test User")
	if err == ErrRegistrationInFlight {
		t.Error("Expected a different asset to proceed while 42 is in flight")
	}

	close(release)
	wg.Wait()

	if client.RegistrationInFlight(42) {
		t.Error("Expected in-flight flag cleared after completion")
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	setupWarrantyTest(t, "http://example.invalid")
	defer database.DB.Close()

	client := NewClient(5)

	var validationErr *models.ValidationError
	if _, err := client.Register(context.Background(), 0, "Laptop", "x"); !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError for missing asset id, got %v", err)
	}
	if _, err := client.Register(context.Background(), 1, "", "x"); !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError for missing asset name, got %v", err)
	}
}

func TestConfigKeyEncryptedAtRest(t *testing.T) {
	setupWarrantyTest(t, "http://example.invalid")
	defer database.DB.Close()

	var stored string
	err := database.DB.QueryRow("SELECT api_key FROM warranty_config WHERE id = 1").Scan(&stored)
	if err != nil {
		t.Fatal(err)
	}

	if stored == "test-api-key" {
		t.Error("Expected API key to be encrypted at rest")
	}

	config, err := GetConfig()
	if err != nil {
		t.Fatal(err)
	}
	if config.APIKey != "test-api-key" {
		t.Errorf("Expected decrypted key from GetConfig, got '%s'", config.APIKey)
	}
}
