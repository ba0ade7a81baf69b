package handlers

import (
	"encoding/json"
	"net/http"

	"assetmanager/backend/middleware"
	"assetmanager/backend/services"
	"assetmanager/backend/warranty"
)

// WarrantyHandler fronts the external warranty service. It holds the shared
// gateway client so the per-asset in-flight guard is process-wide.
type WarrantyHandler struct {
	client *warranty.Client
}

func NewWarrantyHandler(client *warranty.Client) *WarrantyHandler {
	return &WarrantyHandler{client: client}
}

// Register forwards a registration to the warranty service. A success is
// reported back for the client's transient registered flag only; nothing is
// written to the asset record. Failures surface the upstream detail and leave
// the asset retryable.
func (h *WarrantyHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var body struct {
		AssetID      int64  `json:"asset_id"`
		AssetName    string `json:"asset_name"`
		RegisteredBy string `json:"registered_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.AssetID == 0 || body.AssetName == "" {
		writeJSONError(w, http.StatusBadRequest, "asset_id and asset_name are required")
		return
	}

	// The registering label comes from the resolved session when the client
	// didn't supply one
	registeredBy := body.RegisteredBy
	if registeredBy == "" {
		registeredBy = identity.Profile.FullName
	}

	// A user may only register warranties for their own assets; admins for any
	asset, err := services.GetAsset(body.AssetID)
	if err != nil {
		writeError(w, err)
		return
	}
	if identity.Role != "ADMIN" && asset.CreatedBy != identity.Profile.ID {
		writeJSONError(w, http.StatusForbidden, "you can only register warranties for assets you created")
		return
	}

	ack, err := h.client.Register(r.Context(), body.AssetID, body.AssetName, registeredBy)
	if err == warranty.ErrRegistrationInFlight {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, ack)
}
