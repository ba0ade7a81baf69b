package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"assetmanager/backend/models"
	"assetmanager/backend/services"

	"github.com/gorilla/mux"
)

func GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := services.ListDepartments()
	if err != nil {
		writeError(w, err)
		return
	}

	if departments == nil {
		departments = []models.Department{}
	}
	writeJSON(w, departments)
}

func AddDepartment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	department, err := services.CreateDepartment(body.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, department)
}

func DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	if err := services.DeleteDepartment(id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
