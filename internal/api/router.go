package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Extraction pipeline
	mux.HandleFunc("/api/upload", a.UploadHandler)

	// Query service
	mux.HandleFunc("/api/records", a.ListIDsHandler)
	mux.HandleFunc("/api/records/all", a.ListRecordsHandler)
	mux.HandleFunc("/api/record/", a.GetRecordHandler)
	mux.HandleFunc("/api/search", a.SearchHandler)

	return mux
}
