package api

import (
	"encoding/json"
	"log"
	"net/http"

	"doc-extract/internal/pipeline"
	"doc-extract/internal/storage"
)

type API struct {
	db       *storage.DB
	pipeline *pipeline.Pipeline
}

func NewAPI(db *storage.DB, p *pipeline.Pipeline) *API {
	return &API{db: db, pipeline: p}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// SearchHandler searches stored records
// @Summary Search records
// @Description Search extracted records by name, number, or skills
// @Tags records
// @Accept json
// @Produce json
// @Param criteria body storage.Criteria true "Search criteria"
// @Success 200 {array} storage.Record
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /search [post]
func (a *API) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var crit storage.Criteria
	if err := json.NewDecoder(r.Body).Decode(&crit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	records, err := a.db.SearchRecords(r.Context(), &crit)
	if err != nil {
		log.Printf("Search failed: %v", err)
		writeError(w, http.StatusInternalServerError, "search error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}
