package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-narration/internal/domain"
	"github.com/listenupapp/listenup-narration/internal/transcription"
)

func TestSegmentAlignmentLifecycle(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/segments/align", segmentBody("seg-1"))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[domain.Alignment](t, resp.Body.Bytes())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "seg-1", created.SegmentID)
	assert.Equal(t, domain.StrategyTranscript, created.Strategy)
	assert.True(t, created.Report.IsValid)
	assert.Equal(t, 2, created.SentenceCount())
	assert.Equal(t, int64(2000), created.DurationMs)

	resp = ts.api.Get("/api/v1/alignments/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	fetched := decode[domain.Alignment](t, resp.Body.Bytes())
	assert.Equal(t, created.Result, fetched.Result)

	resp = ts.api.Get("/api/v1/segments/seg-1/alignment")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	latest := decode[domain.Alignment](t, resp.Body.Bytes())
	assert.Equal(t, created.ID, latest.ID)

	resp = ts.api.Delete("/api/v1/alignments/" + created.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/alignments/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	resp = ts.api.Delete("/api/v1/alignments/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAlignSegment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"audio missing", transcription.ErrAudioNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"model loading", transcription.ErrModelNotLoaded, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"server failure", transcription.ErrServer, http.StatusBadGateway, "UPSTREAM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t, Options{})
			body := segmentBody("seg-1")
			ts.transcriber.errs[body["audioPath"].(string)] = tt.err

			resp := ts.api.Post("/api/v1/segments/align", body)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			apiErr := decode[APIError](t, resp.Body.Bytes())
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestAlignSegment_InvalidRequest(t *testing.T) {
	ts := setupTestServer(t, Options{})

	body := segmentBody("seg-1")
	body["language"] = "klingon"

	resp := ts.api.Post("/api/v1/segments/align", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)
	assert.Equal(t, map[string]any{"language": "must be a language code or name"}, apiErr.Details)
}

func TestAlignSegmentBatch(t *testing.T) {
	ts := setupTestServer(t, Options{})

	failing := segmentBody("seg-2")
	ts.transcriber.errs[failing["audioPath"].(string)] = transcription.ErrAudioNotFound

	resp := ts.api.Post("/api/v1/segments/align-batch", map[string]any{
		"segments": []map[string]any{segmentBody("seg-1"), failing, segmentBody("seg-3")},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decode[AlignSegmentBatchResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Results, 3)

	assert.Equal(t, "seg-1", out.Results[0].SegmentID)
	require.NotNil(t, out.Results[0].Alignment)
	assert.Nil(t, out.Results[0].Error)

	assert.Equal(t, "seg-2", out.Results[1].SegmentID)
	assert.Nil(t, out.Results[1].Alignment)
	require.NotNil(t, out.Results[1].Error)
	assert.Equal(t, "NOT_FOUND", out.Results[1].Error.Code)

	assert.Equal(t, "seg-3", out.Results[2].SegmentID)
}

func TestAlignSegmentBatch_Empty(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/segments/align-batch", map[string]any{
		"segments": []map[string]any{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
}

func TestGetSegmentAlignment_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/segments/never-aligned/alignment")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
