package pipeline

import (
	"context"
	"errors"
	"log"

	"doc-extract/internal/document"
	"doc-extract/internal/llm"
	"doc-extract/internal/storage"

	"github.com/google/uuid"
)

// Model is the slice of the model client the pipeline needs.
type Model interface {
	Extract(ctx context.Context, content string) (string, llm.Usage, error)
	DetectIntent(ctx context.Context, content string) string
}

// Store persists deduplicated records.
type Store interface {
	SaveRecords(ctx context.Context, records []storage.Record) (bool, error)
}

// Pipeline runs the extraction flow for a batch of uploaded files:
// extract text, classify intent, call the model, parse, store. Files are
// processed strictly sequentially as a throttle against the model
// service's rate limits.
type Pipeline struct {
	model Model
	store Store
}

func New(model Model, store Store) *Pipeline {
	return &Pipeline{model: model, store: store}
}

// File is one uploaded file.
type File struct {
	Name string
	Data []byte
}

// FileResult is the per-file outcome. A failure is recorded here and does
// not abort the rest of the batch.
type FileResult struct {
	Filename   string       `json:"filename"`
	Intent     string       `json:"intent,omitempty"`
	Records    []llm.Record `json:"extracted_data"`
	TokensUsed int          `json:"tokens_used"`
	Stored     bool         `json:"stored"`
	Error      string       `json:"error,omitempty"`
}

// BatchResult aggregates per-file results and the explicit token
// accumulator for the whole request.
type BatchResult struct {
	RequestID   string       `json:"request_id"`
	Results     []FileResult `json:"results"`
	TotalTokens int          `json:"total_tokens"`
}

// Process handles each file in order and never fails the batch as a
// whole; per-file errors land in that file's result.
func (p *Pipeline) Process(ctx context.Context, files []File) BatchResult {
	batch := BatchResult{RequestID: uuid.NewString()}

	for _, f := range files {
		result := p.processFile(ctx, f)
		batch.TotalTokens += result.TokensUsed
		batch.Results = append(batch.Results, result)
	}
	return batch
}

func (p *Pipeline) processFile(ctx context.Context, f File) FileResult {
	result := FileResult{Filename: f.Name}

	text, err := document.Extract(f.Name, f.Data)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", f.Name, err)
		result.Error = errorMessage(err)
		return result
	}

	result.Intent = p.model.DetectIntent(ctx, text)

	raw, usage, err := p.model.Extract(ctx, text)
	result.TokensUsed = usage.Total()
	if err != nil {
		log.Printf("Model extraction failed for %s: %v", f.Name, err)
		result.Error = errorMessage(err)
		return result
	}
	if raw == "" {
		// Nothing extractable (e.g. an image with no recognizable text).
		return result
	}

	records, err := llm.ParseRecords(raw)
	if err != nil {
		log.Printf("Model output for %s could not be structured: %v", f.Name, err)
		result.Error = errorMessage(err)
		return result
	}
	result.Records = records

	stored, err := p.store.SaveRecords(ctx, toStorageRecords(records))
	if err != nil {
		log.Printf("Storing records for %s failed: %v", f.Name, err)
		result.Error = "failed to store extracted records"
		return result
	}
	result.Stored = stored
	return result
}

func toStorageRecords(records []llm.Record) []storage.Record {
	out := make([]storage.Record, 0, len(records))
	for _, r := range records {
		out = append(out, storage.Record{
			Name:                r.Name,
			Email:               r.Email,
			Number:              r.Number,
			ProfessionalSummary: r.ProfessionalSummary,
			ProjectName:         r.ProjectName,
			Skills:              r.Skills,
		})
	}
	return out
}

// errorMessage maps internal errors to the human-readable messages
// returned to callers. No stack traces or internal state leak out.
func errorMessage(err error) string {
	var unsupported *document.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return unsupported.Error()
	}
	var extraction *document.ExtractionError
	if errors.As(err, &extraction) {
		return extraction.Error()
	}
	var quota *llm.QuotaError
	if errors.As(err, &quota) {
		return "model service quota exhausted, try again later"
	}
	var parse *llm.ParseError
	if errors.As(err, &parse) {
		return "model responded but its output could not be parsed as records"
	}
	var model *llm.ModelError
	if errors.As(err, &model) {
		return "model service error"
	}
	return "internal error"
}
