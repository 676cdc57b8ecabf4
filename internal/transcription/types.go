package transcription

import (
	"strings"

	"github.com/listenupapp/listenup-narration/internal/alignment"
)

// Transcript is the transcription service's answer for one audio file.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"` // seconds
	Segments []Segment `json:"segments"`
	Words    []Word    `json:"words"`
}

// Segment is a decoder segment with its own word list.
type Segment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Word is one recognised word with timestamps in seconds.
type Word struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// Health is the service's self-report.
type Health struct {
	Status      string `json:"status"`
	Model       string `json:"model"`
	Device      string `json:"device"`
	ComputeType string `json:"compute_type"`
}

// Healthy reports whether the service declared itself healthy.
func (h *Health) Healthy() bool {
	return h != nil && strings.EqualFold(h.Status, "healthy")
}

// AlignmentWords converts the flattened word list to alignment input.
// When the flattened list is missing, words are collected from segments.
func (t *Transcript) AlignmentWords() []alignment.TranscriptWord {
	src := t.Words
	if len(src) == 0 {
		for _, seg := range t.Segments {
			src = append(src, seg.Words...)
		}
	}

	words := make([]alignment.TranscriptWord, 0, len(src))
	for _, w := range src {
		words = append(words, alignment.TranscriptWord{
			Text:       w.Word,
			StartSec:   w.Start,
			EndSec:     w.End,
			Confidence: w.Probability,
		})
	}
	return words
}

type transcribeRequest struct {
	AudioPath string `json:"audio_path"`
	Language  string `json:"language"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
