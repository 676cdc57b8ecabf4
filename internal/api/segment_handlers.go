package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/listenup-narration/internal/domain"
	domainerrors "github.com/listenupapp/listenup-narration/internal/errors"
)

func (s *Server) registerSegmentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "alignSegment",
		Method:        http.MethodPost,
		Path:          "/api/v1/segments/align",
		Summary:       "Align segment",
		Description:   "Transcribes a narration audio file, aligns its sentences and stores the alignment",
		Tags:          []string{"Segments"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAlignSegment)

	huma.Register(s.api, huma.Operation{
		OperationID: "alignSegmentBatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/segments/align-batch",
		Summary:     "Align segments",
		Description: "Aligns many segments with bounded concurrency; failures are reported per segment",
		Tags:        []string{"Segments"},
	}, s.handleAlignSegmentBatch)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSegmentAlignment",
		Method:      http.MethodGet,
		Path:        "/api/v1/segments/{segmentId}/alignment",
		Summary:     "Get segment alignment",
		Description: "Returns the most recent alignment stored for a segment",
		Tags:        []string{"Segments"},
	}, s.handleGetSegmentAlignment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAlignment",
		Method:      http.MethodGet,
		Path:        "/api/v1/alignments/{id}",
		Summary:     "Get alignment",
		Description: "Returns a stored alignment by ID",
		Tags:        []string{"Alignments"},
	}, s.handleGetAlignment)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteAlignment",
		Method:        http.MethodDelete,
		Path:          "/api/v1/alignments/{id}",
		Summary:       "Delete alignment",
		Description:   "Deletes a stored alignment",
		Tags:          []string{"Alignments"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteAlignment)
}

// === DTOs ===

// AlignSegmentInput wraps a segment alignment request for Huma.
type AlignSegmentInput struct {
	Body domain.SegmentRequest
}

// AlignmentOutput wraps a stored alignment for Huma.
type AlignmentOutput struct {
	Body *domain.Alignment
}

// AlignSegmentBatchRequest is the request body for batch alignment.
type AlignSegmentBatchRequest struct {
	Segments []domain.SegmentRequest `json:"segments" minItems:"1" maxItems:"100" doc:"Segments to align"`
}

// AlignSegmentBatchInput wraps the batch request for Huma.
type AlignSegmentBatchInput struct {
	Body AlignSegmentBatchRequest
}

// BatchItemResponse is the outcome of one segment in a batch.
type BatchItemResponse struct {
	SegmentID string            `json:"segmentId" doc:"Segment ID from the request"`
	Alignment *domain.Alignment `json:"alignment,omitempty" doc:"Stored alignment on success"`
	Error     *APIError         `json:"error,omitempty" doc:"Failure on error"`
}

// AlignSegmentBatchResponse contains the batch outcome.
type AlignSegmentBatchResponse struct {
	Results   []BatchItemResponse `json:"results" doc:"Per-segment outcomes in request order"`
	Succeeded int                 `json:"succeeded" doc:"Number of aligned segments"`
	Failed    int                 `json:"failed" doc:"Number of failed segments"`
}

// AlignSegmentBatchOutput wraps the batch response for Huma.
type AlignSegmentBatchOutput struct {
	Body AlignSegmentBatchResponse
}

// GetSegmentAlignmentInput contains parameters for the latest segment alignment.
type GetSegmentAlignmentInput struct {
	SegmentID string `path:"segmentId" doc:"Segment ID"`
}

// AlignmentIDInput contains the alignment ID path parameter.
type AlignmentIDInput struct {
	ID string `path:"id" doc:"Alignment ID"`
}

// === Handlers ===

func (s *Server) handleAlignSegment(ctx context.Context, input *AlignSegmentInput) (*AlignmentOutput, error) {
	a, err := s.alignments.AlignSegment(ctx, input.Body)
	if err != nil {
		return nil, s.handlerError("alignSegment", err)
	}
	return &AlignmentOutput{Body: a}, nil
}

func (s *Server) handleAlignSegmentBatch(ctx context.Context, input *AlignSegmentBatchInput) (*AlignSegmentBatchOutput, error) {
	outcomes, err := s.alignments.AlignSegments(ctx, input.Body.Segments)
	if err != nil {
		return nil, s.handlerError("alignSegmentBatch", err)
	}

	resp := AlignSegmentBatchResponse{Results: make([]BatchItemResponse, 0, len(outcomes))}
	for _, o := range outcomes {
		item := BatchItemResponse{SegmentID: o.SegmentID, Alignment: o.Alignment}
		if o.Err != nil {
			item.Error = s.batchError(o.SegmentID, o.Err)
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, item)
	}
	return &AlignSegmentBatchOutput{Body: resp}, nil
}

// batchError converts a per-segment failure; unexpected errors are logged and
// reported without internals.
func (s *Server) batchError(segmentID string, err error) *APIError {
	if apiErr := fromError(err); apiErr != nil {
		return apiErr
	}
	s.logger.Error("segment alignment failed", "segment_id", segmentID, "error", err)
	return fromError(domainerrors.Internal("alignment failed"))
}

func (s *Server) handleGetSegmentAlignment(ctx context.Context, input *GetSegmentAlignmentInput) (*AlignmentOutput, error) {
	a, err := s.alignments.GetLatestForSegment(ctx, input.SegmentID)
	if err != nil {
		return nil, s.handlerError("getSegmentAlignment", err)
	}
	return &AlignmentOutput{Body: a}, nil
}

func (s *Server) handleGetAlignment(ctx context.Context, input *AlignmentIDInput) (*AlignmentOutput, error) {
	a, err := s.alignments.GetAlignment(ctx, input.ID)
	if err != nil {
		return nil, s.handlerError("getAlignment", err)
	}
	return &AlignmentOutput{Body: a}, nil
}

func (s *Server) handleDeleteAlignment(ctx context.Context, input *AlignmentIDInput) (*struct{}, error) {
	if err := s.alignments.DeleteAlignment(ctx, input.ID); err != nil {
		return nil, s.handlerError("deleteAlignment", err)
	}
	return nil, nil
}
