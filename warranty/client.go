package warranty

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"assetmanager/backend/database"
	"assetmanager/backend/models"
	"assetmanager/backend/security"
)

const (
	configTable    = "warranty_config"
	defaultTimeout = 15 // seconds
)

// InitWarranty creates the single-row config table if needed and seeds it
// from the environment on first run. The API key is encrypted before it is
// stored.
func InitWarranty() error {
	_, err := database.DB.Exec(`
		CREATE TABLE IF NOT EXISTS warranty_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			api_url TEXT,
			api_key TEXT,
			timeout_seconds INTEGER DEFAULT 15,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create warranty config table: %w", err)
	}

	var count int
	err = database.DB.QueryRow("SELECT COUNT(*) FROM warranty_config").Scan(&count)
	if err != nil {
		return fmt.Errorf("error checking warranty config table: %w", err)
	}

	if count == 0 {
		apiURL := os.Getenv("WARRANTY_API_URL")
		apiKey := os.Getenv("WARRANTY_API_KEY")

		encryptedKey := ""
		if apiKey != "" {
			encryptedKey, err = security.Encrypt(apiKey)
			if err != nil {
				return fmt.Errorf("failed to encrypt warranty API key: %w", err)
			}
		}

		_, err = database.DB.Exec(`
			INSERT INTO warranty_config (id, api_url, api_key, timeout_seconds)
			VALUES (1, ?, ?, ?)`,
			apiURL, encryptedKey, defaultTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize warranty config: %w", err)
		}

		if apiURL == "" {
			log.Println("Warning: WARRANTY_API_URL not set, warranty registration will be unavailable")
		}
	}

	return nil
}

// GetConfig retrieves the warranty service configuration with the API key
// decrypted.
func GetConfig() (*models.WarrantyConfig, error) {
	var config models.WarrantyConfig
	var apiURL, apiKey sql.NullString
	var lastUpdated sql.NullTime

	err := database.DB.QueryRow(`
		SELECT api_url, api_key, timeout_seconds, last_updated
		FROM warranty_config WHERE id = 1
	`).Scan(&apiURL, &apiKey, &config.TimeoutSeconds, &lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("error retrieving warranty config: %w", err)
	}

	if apiURL.Valid {
		config.APIURL = apiURL.String
	}
	if apiKey.Valid && apiKey.String != "" {
		decrypted, err := security.Decrypt(apiKey.String)
		if err != nil {
			return nil, fmt.Errorf("error decrypting warranty API key: %w", err)
		}
		config.APIKey = decrypted
	}
	if lastUpdated.Valid {
		config.LastUpdated = lastUpdated.Time
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = defaultTimeout
	}

	return &config, nil
}

// SaveConfig stores the warranty service configuration, encrypting the key.
func SaveConfig(apiURL, apiKey string, timeoutSeconds int) error {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeout
	}

	encryptedKey := ""
	if apiKey != "" {
		var err error
		encryptedKey, err = security.Encrypt(apiKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt warranty API key: %w", err)
		}
	}

	_, err := database.DB.Exec(`
		INSERT INTO warranty_config (id, api_url, api_key, timeout_seconds, last_updated)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			api_url = excluded.api_url,
			api_key = excluded.api_key,
			timeout_seconds = excluded.timeout_seconds,
			last_updated = excluded.last_updated
	`, apiURL, encryptedKey, timeoutSeconds, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save warranty config: %w", err)
	}

	return nil
}

// registration is the request body the warranty service expects.
type registration struct {
	AssetID      int64  `json:"asset_id"`
	AssetName    string `json:"asset_name"`
	RegisteredBy string `json:"registered_by"`
}

// upstreamResponse covers both shapes the service answers with: a detail or
// message field on failure, confirmation fields on success.
type upstreamResponse struct {
	Detail       string `json:"detail"`
	Message      string `json:"message"`
	Confirmation string `json:"confirmation"`
}

// Client talks to the external warranty service. It never touches the assets
// table: registration status is the caller's transient state, not ours.
type Client struct {
	httpClient *http.Client

	mu       sync.Mutex
	inFlight map[int64]bool
}

// NewClient builds a client with the configured timeout.
func NewClient(timeoutSeconds int) *Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		inFlight:   make(map[int64]bool),
	}
}

// ErrRegistrationInFlight is returned while a registration for the same asset
// is still outstanding. Registrations for other assets are unaffected.
var ErrRegistrationInFlight = fmt.Errorf("a warranty registration for this asset is already in progress")

// Register posts a registration to the warranty service. Any network
// failure, non-2xx status or malformed body yields a GatewayError; the caller
// must leave the asset unregistered and retryable in all of those cases.
// There is no automatic retry and no idempotency key: a manual retry after a
// false-negative timeout may register twice upstream.
func (c *Client) Register(ctx context.Context, assetID int64, assetName, registeredBy string) (*models.WarrantyAck, error) {
	if assetID == 0 || assetName == "" {
		return nil, &models.ValidationError{Message: "asset_id and asset_name are required"}
	}

	config, err := GetConfig()
	if err != nil {
		return nil, err
	}
	if config.APIURL == "" || config.APIKey == "" {
		return nil, &models.GatewayError{Detail: "warranty service is not configured"}
	}

	c.mu.Lock()
	if c.inFlight[assetID] {
		c.mu.Unlock()
		return nil, ErrRegistrationInFlight
	}
	c.inFlight[assetID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, assetID)
		c.mu.Unlock()
	}()

	body, err := json.Marshal(registration{
		AssetID:      assetID,
		AssetName:    assetName,
		RegisteredBy: registeredBy,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding registration request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.GatewayError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.GatewayError{StatusCode: resp.StatusCode, Detail: "failed to read response body"}
	}

	var upstream upstreamResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &upstream); err != nil && resp.StatusCode < 300 {
			// A 2xx with an unreadable body is not a success we can trust
			return nil, &models.GatewayError{StatusCode: resp.StatusCode, Detail: "malformed response from warranty service"}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := upstream.Detail
		if detail == "" {
			detail = upstream.Message
		}
		if detail == "" {
			detail = "warranty registration failed"
		}
		log.Printf("Warranty service error for asset %d: status %d: %s", assetID, resp.StatusCode, detail)
		return nil, &models.GatewayError{StatusCode: resp.StatusCode, Detail: detail}
	}

	return &models.WarrantyAck{
		AssetID:      assetID,
		Registered:   true,
		Confirmation: upstream.Confirmation,
	}, nil
}

// RegistrationInFlight reports whether a registration for the asset is
// currently outstanding.
func (c *Client) RegistrationInFlight(assetID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[assetID]
}
