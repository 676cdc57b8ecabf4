package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-narration/internal/service"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	report := s.alignments.Health(ctx)

	transcription := ComponentHealth{Status: report.Transcription}
	if w := report.Whisper; w != nil {
		var parts []string
		for _, p := range []string{w.Model, w.Device, w.ComputeType} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		transcription.Message = strings.Join(parts, " ")
	} else if report.Transcription != service.StatusHealthy {
		transcription.Message = "transcription service unreachable"
	}

	database := ComponentHealth{Status: report.Database}
	if report.Database != service.StatusHealthy {
		database.Message = "database ping failed"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status: report.Status,
			Components: map[string]ComponentHealth{
				"database":      database,
				"transcription": transcription,
			},
		},
	}, nil
}
