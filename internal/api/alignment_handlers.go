package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/domain"
	"github.com/listenupapp/listenup-narration/internal/service"
)

func (s *Server) registerAlignmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "alignTranscript",
		Method:      http.MethodPost,
		Path:        "/api/v1/align",
		Summary:     "Align transcript",
		Description: "Aligns script sentences against a supplied word-timed transcript and validates the result",
		Tags:        []string{"Alignment"},
	}, s.handleAlignTranscript)

	huma.Register(s.api, huma.Operation{
		OperationID: "validateAlignment",
		Method:      http.MethodPost,
		Path:        "/api/v1/validate",
		Summary:     "Validate alignment",
		Description: "Reports overlaps, empty sentences and low confidence in an alignment result",
		Tags:        []string{"Alignment"},
	}, s.handleValidateAlignment)
}

// === DTOs ===

// AlignTranscriptInput wraps the inline alignment request for Huma.
type AlignTranscriptInput struct {
	Words bool `query:"words" doc:"Capture per-word timings"`
	Body  domain.TranscriptRequest
}

// AlignTranscriptOutput wraps the alignment and its report for Huma.
type AlignTranscriptOutput struct {
	Body service.TranscriptAlignment
}

// ValidateAlignmentInput wraps a result to validate.
type ValidateAlignmentInput struct {
	Body alignment.Result
}

// ValidateAlignmentOutput wraps the validation report for Huma.
type ValidateAlignmentOutput struct {
	Body alignment.Report
}

// === Handlers ===

func (s *Server) handleAlignTranscript(ctx context.Context, input *AlignTranscriptInput) (*AlignTranscriptOutput, error) {
	req := input.Body
	req.WithWords = req.WithWords || input.Words

	out, err := s.alignments.AlignTranscript(ctx, req)
	if err != nil {
		return nil, s.handlerError("alignTranscript", err)
	}
	return &AlignTranscriptOutput{Body: *out}, nil
}

func (s *Server) handleValidateAlignment(_ context.Context, input *ValidateAlignmentInput) (*ValidateAlignmentOutput, error) {
	return &ValidateAlignmentOutput{Body: s.alignments.Validate(input.Body)}, nil
}
