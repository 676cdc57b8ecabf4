// Package alignment locates narration script sentences inside a word-level
// speech-to-text transcript.
//
// The engine is a greedy, single-pass, order-preserving matcher. It never
// revisits transcript words consumed by an earlier sentence, never fails on
// well-typed input, and reports degraded alignments through confidence scores,
// warnings and Validate rather than errors. All functions are pure and safe for
// concurrent use on independent inputs.
package alignment

// TranscriptWord is one time-coded word emitted by the speech-to-text service.
type TranscriptWord struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"startSec"`
	EndSec     float64 `json:"endSec"`
	Confidence float64 `json:"confidence"`
}

// Sentence is one unit of the narration script.
// ID is opaque and round-tripped into the output; Order defines processing sequence.
type Sentence struct {
	ID    string `json:"id" validate:"required"`
	Text  string `json:"text"`
	Order int32  `json:"order"`
}

// WordTiming is the timing of a matched word relative to the start of its
// sentence. The first captured word of a sentence always starts at 0.
type WordTiming struct {
	Word       string  `json:"word"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Confidence float64 `json:"confidence"`
}

// SentenceTiming is the recovered position of one sentence in the narration.
// Words is only populated by AlignWithWords.
type SentenceTiming struct {
	SentenceID string       `json:"sentenceId"`
	StartMs    int64        `json:"startMs"`
	EndMs      int64        `json:"endMs"`
	Confidence float64      `json:"confidence"`
	Words      []WordTiming `json:"words,omitempty"`
}

// Result is the outcome of an alignment pass.
type Result struct {
	SentenceTimings   []SentenceTiming `json:"sentenceTimings"`
	TotalDurationMs   int64            `json:"totalDurationMs"`
	AverageConfidence float64          `json:"averageConfidence"`
	Warnings          []string         `json:"warnings"`
}

// Report is the advisory outcome of Validate.
type Report struct {
	IsValid bool     `json:"isValid"`
	Issues  []string `json:"issues"`
}

// Options tunes the two search windows of the sequential walk.
// Zero values select the defaults.
type Options struct {
	// StartLookahead is how many transcript words are scanned for a sentence's
	// first token (default 10).
	StartLookahead int `json:"startLookahead,omitempty" validate:"gte=0,lte=1000"`
	// TokenWindow is how many transcript words are scanned for each subsequent
	// token (default 5).
	TokenWindow int `json:"tokenWindow,omitempty" validate:"gte=0,lte=1000"`
	// CaptureWords records per-word relative timings for matched tokens.
	CaptureWords bool `json:"captureWords,omitempty"`
}

const (
	// DefaultStartLookahead is the sentence-start search window.
	DefaultStartLookahead = 10
	// DefaultTokenWindow is the per-token forward search window.
	DefaultTokenWindow = 5

	// LowConfidenceThreshold marks sentences and results as untrustworthy.
	LowConfidenceThreshold = 0.5

	warningPrefixLen = 50
)

func (o Options) withDefaults() Options {
	if o.StartLookahead <= 0 {
		o.StartLookahead = DefaultStartLookahead
	}
	if o.TokenWindow <= 0 {
		o.TokenWindow = DefaultTokenWindow
	}
	return o
}
