package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"assetmanager/backend/models"
)

// writeError maps service errors onto HTTP statuses and a JSON body the
// frontend shows inline. Nothing here ever panics a request or blanks the
// screen with a raw failure.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr  *models.ValidationError
		referenceErr   *models.ReferenceError
		forbiddenErr   *models.ForbiddenError
		referentialErr *models.ReferentialError
		notFoundErr    *models.NotFoundError
		gatewayErr     *models.GatewayError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &referenceErr):
		writeJSONError(w, http.StatusUnprocessableEntity, referenceErr.Message)
	case errors.As(err, &forbiddenErr):
		writeJSONError(w, http.StatusForbidden, forbiddenErr.Message)
	case errors.As(err, &referentialErr):
		writeJSONError(w, http.StatusConflict, referentialErr.Error())
	case errors.As(err, &notFoundErr):
		writeJSONError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &gatewayErr):
		writeJSONError(w, http.StatusBadGateway, gatewayErr.Detail)
	default:
		log.Printf("Internal error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
