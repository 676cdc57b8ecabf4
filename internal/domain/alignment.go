package domain

import (
	"time"

	"github.com/listenupapp/listenup-narration/internal/alignment"
)

// Strategy records how sentence timings were produced.
type Strategy string

const (
	// StrategyTranscript means timings came from aligning the transcript.
	StrategyTranscript Strategy = "transcript"
	// StrategyEven means the transcript alignment was rejected and the segment
	// duration was split evenly across the sentences.
	StrategyEven Strategy = "even"
)

// Alignment is a stored alignment of one narration segment.
type Alignment struct {
	ID                  string           `json:"id"`
	SegmentID           string           `json:"segmentId"`
	AudioPath           string           `json:"audioPath"`
	Language            string           `json:"language"`
	Strategy            Strategy         `json:"strategy"`
	Result              alignment.Result `json:"result"`
	Report              alignment.Report `json:"report"`
	TranscriptWordCount int              `json:"transcriptWordCount"`
	DurationMs          int64            `json:"durationMs"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// SentenceCount is the number of aligned sentences.
func (a *Alignment) SentenceCount() int {
	return len(a.Result.SentenceTimings)
}

// SegmentRequest asks for one audio segment to be transcribed and aligned
// against its script sentences.
type SegmentRequest struct {
	SegmentID string               `json:"segmentId" validate:"required,max=256"`
	AudioPath string               `json:"audioPath" validate:"required,max=4096"`
	Language  string               `json:"language,omitempty" validate:"language"`
	Sentences []alignment.Sentence `json:"sentences" validate:"required,min=1,unique=ID,dive"`
	WithWords bool                 `json:"withWords,omitempty"`
}

// TranscriptRequest aligns caller-supplied sentences against an existing
// transcript. Nothing is transcribed or stored.
type TranscriptRequest struct {
	Sentences []alignment.Sentence       `json:"sentences" validate:"unique=ID,dive"`
	Words     []alignment.TranscriptWord `json:"words"`
	WithWords bool                       `json:"withWords,omitempty"`
}
