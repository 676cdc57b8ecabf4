package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenupapp/listenup-narration/internal/transcription"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		health     *transcription.Health
		healthErr  error
		wantStatus string
		wantTr     ComponentHealth
	}{
		{
			name:       "healthy",
			health:     &transcription.Health{Status: "healthy", Model: "base", Device: "cpu", ComputeType: "int8"},
			wantStatus: "healthy",
			wantTr:     ComponentHealth{Status: "healthy", Message: "base cpu int8"},
		},
		{
			name:       "transcription unreachable",
			healthErr:  transcription.ErrServer,
			wantStatus: "degraded",
			wantTr:     ComponentHealth{Status: "unhealthy", Message: "transcription service unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t, Options{})
			ts.transcriber.health = tt.health
			ts.transcriber.healthErr = tt.healthErr

			resp := ts.api.Get("/health")
			assert.Equal(t, http.StatusOK, resp.Code)

			body := decode[HealthResponse](t, resp.Body.Bytes())
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "healthy", body.Components["database"].Status)
			assert.Equal(t, tt.wantTr, body.Components["transcription"])
		})
	}
}
