package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"doc-extract/internal/llm"
	"doc-extract/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore mirrors the store's dedup semantics in memory: one row per
// (name, email, number) triple.
type memStore struct {
	records []storage.Record
	saveErr error
}

func (m *memStore) SaveRecords(ctx context.Context, records []storage.Record) (bool, error) {
	if m.saveErr != nil {
		return false, m.saveErr
	}
	inserted := false
	for _, r := range records {
		if m.exists(r) {
			continue
		}
		r.ID = int64(len(m.records) + 1)
		m.records = append(m.records, r)
		inserted = true
	}
	return inserted, nil
}

func (m *memStore) exists(r storage.Record) bool {
	for _, ex := range m.records {
		if ex.Name == r.Name && ex.Email == r.Email && ex.Number == r.Number {
			return true
		}
	}
	return false
}

type stubModel struct {
	reply        string
	err          error
	intent       string
	extractCalls int
}

func (s *stubModel) Extract(ctx context.Context, content string) (string, llm.Usage, error) {
	s.extractCalls++
	if s.err != nil {
		return "", llm.Usage{}, s.err
	}
	if strings.TrimSpace(content) == "" {
		return "", llm.Usage{}, nil
	}
	return s.reply, llm.Usage{
		InputTokens:  llm.EstimateTokens(content),
		OutputTokens: llm.EstimateTokens(s.reply),
	}, nil
}

func (s *stubModel) DetectIntent(ctx context.Context, content string) string {
	if s.intent == "" {
		return llm.IntentUnknown
	}
	return s.intent
}

const janeReply = `[{"name": "Jane Doe", "email": "jane@x.com", "number": "555-1234",
	"professional_summary": "", "project_name": "", "skills": ""}]`

func janeFile() File {
	return File{Name: "jane.txt", Data: []byte("Jane Doe, jane@x.com, 555-1234")}
}

func TestProcess_TxtUpload(t *testing.T) {
	model := &stubModel{reply: janeReply, intent: "General update"}
	store := &memStore{}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{janeFile()})

	require.Len(t, batch.Results, 1)
	result := batch.Results[0]

	assert.Empty(t, result.Error)
	assert.Equal(t, "jane.txt", result.Filename)
	assert.Equal(t, "General update", result.Intent)
	assert.True(t, result.Stored)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Jane Doe", result.Records[0].Name)
	assert.Equal(t, "jane@x.com", result.Records[0].Email)
	assert.Equal(t, "555-1234", result.Records[0].Number)

	require.Len(t, store.records, 1)
	assert.Equal(t, "Jane Doe", store.records[0].Name)

	assert.NotEmpty(t, batch.RequestID)
	assert.Greater(t, batch.TotalTokens, 0)
	assert.Equal(t, result.TokensUsed, batch.TotalTokens)
}

func TestProcess_DuplicateUploadStoresOnce(t *testing.T) {
	model := &stubModel{reply: janeReply}
	store := &memStore{}
	p := New(model, store)

	first := p.Process(context.Background(), []File{janeFile()})
	second := p.Process(context.Background(), []File{janeFile()})

	assert.True(t, first.Results[0].Stored)
	assert.False(t, second.Results[0].Stored, "duplicate triple must be skipped")
	assert.Len(t, store.records, 1)
}

func TestProcess_UnsupportedExtension(t *testing.T) {
	model := &stubModel{reply: janeReply}
	store := &memStore{}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{{Name: "payload.xyz", Data: []byte("data")}})

	require.Len(t, batch.Results, 1)
	result := batch.Results[0]

	assert.Contains(t, result.Error, "unsupported file type")
	assert.False(t, result.Stored)
	assert.Empty(t, store.records, "nothing may be stored for an unsupported file")
	assert.Equal(t, 0, model.extractCalls, "the model must not be called for unreadable files")
}

func TestProcess_FailureDoesNotAbortBatch(t *testing.T) {
	model := &stubModel{reply: janeReply}
	store := &memStore{}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{
		{Name: "payload.xyz", Data: []byte("data")},
		janeFile(),
	})

	require.Len(t, batch.Results, 2)
	assert.NotEmpty(t, batch.Results[0].Error)
	assert.Empty(t, batch.Results[1].Error)
	assert.True(t, batch.Results[1].Stored)
	assert.Len(t, store.records, 1)
}

func TestProcess_MalformedModelOutput(t *testing.T) {
	model := &stubModel{reply: "I'm sorry, I can't do that."}
	store := &memStore{}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{janeFile()})

	result := batch.Results[0]
	assert.Contains(t, result.Error, "could not be parsed")
	assert.False(t, result.Stored)
	assert.Empty(t, result.Records)
	assert.Greater(t, result.TokensUsed, 0, "the model call itself succeeded, so usage is reported")
	assert.Empty(t, store.records)
}

func TestProcess_QuotaExhaustionSurfaced(t *testing.T) {
	model := &stubModel{err: &llm.QuotaError{Attempts: 3}}
	store := &memStore{}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{janeFile()})

	result := batch.Results[0]
	assert.Contains(t, result.Error, "quota exhausted")
	assert.False(t, result.Stored)
	assert.Empty(t, store.records)
}

func TestProcess_StoreFailureSurfaced(t *testing.T) {
	model := &stubModel{reply: janeReply}
	store := &memStore{saveErr: errors.New("pq: connection refused")}
	p := New(model, store)

	batch := p.Process(context.Background(), []File{janeFile()})

	result := batch.Results[0]
	assert.Equal(t, "failed to store extracted records", result.Error)
	assert.NotContains(t, result.Error, "pq:", "driver internals must not leak to callers")
	assert.False(t, result.Stored)
}
