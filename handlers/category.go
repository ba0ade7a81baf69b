package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"assetmanager/backend/models"
	"assetmanager/backend/services"

	"github.com/gorilla/mux"
)

func GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := services.ListCategories()
	if err != nil {
		writeError(w, err)
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, categories)
}

func AddCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := services.CreateCategory(body.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, category)
}

// DeleteCategory removes a category. The delete is rejected with a conflict
// while any asset still references it.
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := services.DeleteCategory(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
