package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"doc-extract/internal/storage"
)

// ListIDsHandler lists stored record ids
// @Summary List record ids
// @Tags records
// @Produce json
// @Success 200 {object} map[string][]int64
// @Router /records [get]
func (a *API) ListIDsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ids, err := a.db.ListIDs(r.Context())
	if err != nil {
		log.Printf("Listing ids failed: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching ids")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"ids": ids})
}

// GetRecordHandler fetches one record by id
// @Summary Get a record
// @Tags records
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} storage.Record
// @Failure 404 {object} map[string]string
// @Router /record/{id} [get]
func (a *API) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/record/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := a.db.GetRecordByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		log.Printf("Fetching record %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "error fetching record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ListRecordsHandler fetches every stored record
// @Summary List all records
// @Tags records
// @Produce json
// @Success 200 {object} map[string][]storage.Record
// @Router /records/all [get]
func (a *API) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records, err := a.db.ListRecords(r.Context())
	if err != nil {
		log.Printf("Listing records failed: %v", err)
		writeError(w, http.StatusInternalServerError, "error fetching records")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]storage.Record{"records": records})
}
