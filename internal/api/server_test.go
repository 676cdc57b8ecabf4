package api

import (
	"context"
	"encoding/json/v2"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/service"
	"github.com/listenupapp/listenup-narration/internal/store/sqlite"
	"github.com/listenupapp/listenup-narration/internal/transcription"
	"github.com/listenupapp/listenup-narration/internal/validation"
)

type stubTranscriber struct {
	transcript *transcription.Transcript
	errs       map[string]error
	health     *transcription.Health
	healthErr  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, audioPath, _ string) (*transcription.Transcript, error) {
	if err, ok := s.errs[audioPath]; ok {
		return nil, err
	}
	return s.transcript, nil
}

func (s *stubTranscriber) Health(context.Context) (*transcription.Health, error) {
	return s.health, s.healthErr
}

type testServer struct {
	*Server
	api         humatest.TestAPI
	transcriber *stubTranscriber
}

func greetingTranscript() *transcription.Transcript {
	return &transcription.Transcript{
		Text:     "Hello world. Good morning.",
		Language: "en",
		Duration: 2.0,
		Words: []transcription.Word{
			{Word: " Hello", Start: 0.0, End: 0.5, Probability: 0.98},
			{Word: " world.", Start: 0.5, End: 1.0, Probability: 0.95},
			{Word: " Good", Start: 1.2, End: 1.6, Probability: 0.97},
			{Word: " morning.", Start: 1.6, End: 2.0, Probability: 0.93},
		},
	}
}

// setupTestServer creates a test server backed by a temp database and a stub
// transcription service.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	log := logger.Discard().Logger

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)

	tr := &stubTranscriber{
		transcript: greetingTranscript(),
		errs:       map[string]error{},
		health:     &transcription.Health{Status: "healthy", Model: "base", Device: "cpu", ComputeType: "int8"},
	}

	svc := service.NewAlignmentService(st, tr, nil, validation.New(), service.AlignmentConfig{
		MaxConcurrent:   2,
		FallbackEnabled: true,
	}, logger.Discard())

	s := NewServer(svc, opts, log)
	t.Cleanup(func() {
		s.Close()
		_ = st.Close()
	})

	return &testServer{
		Server:      s,
		api:         humatest.Wrap(t, s.api),
		transcriber: tr,
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func greetingSentences() []map[string]any {
	return []map[string]any{
		{"id": "s1", "text": "Hello world.", "order": 0},
		{"id": "s2", "text": "Good morning.", "order": 1},
	}
}

func segmentBody(segmentID string) map[string]any {
	return map[string]any{
		"segmentId": segmentID,
		"audioPath": "/narration/" + segmentID + ".wav",
		"sentences": greetingSentences(),
	}
}

