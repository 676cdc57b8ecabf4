package service

import (
	"fmt"

	"github.com/listenupapp/listenup-narration/internal/alignment"
)

// distributeEvenly replaces a rejected alignment with an even split of
// durationMs across its sentences. Boundaries are floor(i*D/N) so the timings
// are contiguous and the last sentence ends exactly at durationMs. Confidence
// is zero since no transcript evidence backs the split; word lists are dropped.
func distributeEvenly(result alignment.Result, durationMs int64) alignment.Result {
	n := int64(len(result.SentenceTimings))
	if n == 0 || durationMs <= 0 {
		return result
	}

	timings := make([]alignment.SentenceTiming, len(result.SentenceTimings))
	for i, t := range result.SentenceTimings {
		idx := int64(i)
		timings[i] = alignment.SentenceTiming{
			SentenceID: t.SentenceID,
			StartMs:    idx * durationMs / n,
			EndMs:      (idx + 1) * durationMs / n,
		}
	}

	warnings := make([]string, 0, len(result.Warnings)+1)
	warnings = append(warnings, result.Warnings...)
	warnings = append(warnings, fmt.Sprintf("Fallback: distributed %d sentences evenly over %d ms", n, durationMs))

	return alignment.Result{
		SentenceTimings:   timings,
		TotalDurationMs:   durationMs,
		AverageConfidence: 0,
		Warnings:          warnings,
	}
}
