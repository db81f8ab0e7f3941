package api

import (
	"io"
	"log"
	"net/http"

	"doc-extract/internal/pipeline"
)

const maxUploadBytes = 32 << 20 // whole multipart form

// UploadHandler accepts document uploads and runs the extraction pipeline
// @Summary Upload documents for extraction
// @Description Upload files (.msg, .txt, .pdf, .docx, .jpg, .jpeg, .png); each is processed sequentially and extracted records are stored with deduplication
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to process"
// @Success 200 {object} pipeline.BatchResult
// @Failure 400 {object} map[string]string
// @Router /upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var files []pipeline.File
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+header.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file "+header.Filename)
			return
		}
		files = append(files, pipeline.File{Name: header.Filename, Data: data})
	}

	log.Printf("Processing upload batch of %d file(s)", len(files))
	batch := a.pipeline.Process(r.Context(), files)

	writeJSON(w, http.StatusOK, batch)
}
