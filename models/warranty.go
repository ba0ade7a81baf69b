package models

import "time"

// WarrantyConfig is the single-row configuration for the external warranty
// service. The API key is stored encrypted at rest.
type WarrantyConfig struct {
	APIURL         string
	APIKey         string
	TimeoutSeconds int
	LastUpdated    time.Time
}

// WarrantyAck is the acknowledgment returned by the warranty service on a
// successful registration. It is never persisted; the registered flag lives
// only in the requesting client's transient state.
type WarrantyAck struct {
	AssetID      int64  `json:"assetId"`
	Registered   bool   `json:"registered"`
	Confirmation string `json:"confirmation,omitempty"`
}
