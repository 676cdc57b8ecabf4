package main

import (
	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/transcription"
)

// job is the CLI input. Words may use the engine's field names or the
// transcription service's; a full transcription response is also accepted.
type job struct {
	Sentences  []alignment.Sentence      `json:"sentences"`
	Words      []jobWord                 `json:"words"`
	Transcript *transcription.Transcript `json:"transcript"`
}

type jobWord struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"startSec"`
	EndSec     float64 `json:"endSec"`
	Confidence float64 `json:"confidence"`

	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

func (w jobWord) transcriptWord() alignment.TranscriptWord {
	tw := alignment.TranscriptWord{
		Text:       w.Text,
		StartSec:   w.StartSec,
		EndSec:     w.EndSec,
		Confidence: w.Confidence,
	}
	if tw.Text == "" {
		tw.Text = w.Word
	}
	if tw.StartSec == 0 && tw.EndSec == 0 {
		tw.StartSec, tw.EndSec = w.Start, w.End
	}
	if tw.Confidence == 0 {
		tw.Confidence = w.Probability
	}
	return tw
}

func (j *job) transcriptWords() []alignment.TranscriptWord {
	if len(j.Words) == 0 && j.Transcript != nil {
		return j.Transcript.AlignmentWords()
	}
	words := make([]alignment.TranscriptWord, 0, len(j.Words))
	for _, w := range j.Words {
		words = append(words, w.transcriptWord())
	}
	return words
}
