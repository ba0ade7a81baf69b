package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"assetmanager/backend/middleware"
	"assetmanager/backend/models"
	"assetmanager/backend/services"

	"github.com/gorilla/mux"
)

// GetMyAssets lists the acting user's own assets, newest first.
func GetMyAssets(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	assets, err := services.ListAssets(services.OwnedBy(identity.Profile.ID))
	if err != nil {
		writeError(w, err)
		return
	}

	if assets == nil {
		assets = []models.Asset{}
	}
	writeJSON(w, assets)
}

// GetAllAssets lists every asset with its owner's name. Admin-only at the
// route level.
func GetAllAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := services.ListAssets(services.ScopeAll())
	if err != nil {
		writeError(w, err)
		return
	}

	if assets == nil {
		assets = []models.Asset{}
	}
	writeJSON(w, assets)
}

// AddAsset creates an asset owned by the acting session. Any owner value in
// the request body is ignored: ownership comes from the resolved identity
// only.
func AddAsset(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	var input models.NewAsset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := services.CreateAsset(input, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, asset)
}

// DeleteAsset removes an asset. The service enforces that a USER can only
// delete assets they created; ADMIN may delete any.
func DeleteAsset(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentityFromContext(r)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	if err := services.DeleteAsset(id, identity); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
