package alignment

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/listenupapp/listenup-narration/internal/normalize"
)

// Align assigns each sentence a contiguous window of transcript words and
// returns sentence-level timings. See AlignWithOptions.
func Align(sentences []Sentence, words []TranscriptWord) Result {
	return AlignWithOptions(sentences, words, Options{})
}

// AlignWithWords is Align plus per-word timings, relative to each sentence's
// start, for every matched token. Unmatched tokens contribute no word entry.
func AlignWithWords(sentences []Sentence, words []TranscriptWord) Result {
	return AlignWithOptions(sentences, words, Options{CaptureWords: true})
}

// AlignWithOptions runs the sequential walk.
//
// Sentences are processed in ascending Order (a sorted copy; the caller's slice
// is untouched). For each sentence the walk locates its first token near the
// transcript cursor, then consumes words token by token, searching a short
// forward window per token. The cursor only moves forward, so no transcript
// word is shared by two sentences and the pass is linear in the number of
// sentences.
//
// The result always holds exactly one timing per sentence. Problems are
// reported as warnings and low confidence, never as errors.
func AlignWithOptions(sentences []Sentence, words []TranscriptWord, opts Options) Result {
	opts = opts.withDefaults()
	ordered := sortByOrder(sentences)

	result := Result{
		SentenceTimings: make([]SentenceTiming, 0, len(ordered)),
		TotalDurationMs: transcriptDurationMs(words),
		Warnings:        []string{},
	}

	if len(ordered) == 0 {
		result.Warnings = append(result.Warnings, "No sentences to align")
		return result
	}

	if len(words) == 0 {
		for _, s := range ordered {
			result.SentenceTimings = append(result.SentenceTimings, SentenceTiming{SentenceID: s.ID})
		}
		result.Warnings = append(result.Warnings, "No transcription words available")
		return result
	}

	final := foldl(ordered, walkState{}, func(st walkState, s Sentence) walkState {
		return st.step(s, words, opts)
	})

	result.SentenceTimings = append(result.SentenceTimings, final.timings...)
	result.Warnings = append(result.Warnings, final.warnings...)
	result.AverageConfidence = averageConfidence(result.SentenceTimings)
	return result
}

// walkState is the accumulator threaded through the fold: the next unconsumed
// transcript index and everything emitted so far. Each state is consumed
// exactly once, so step may append in place.
type walkState struct {
	cursor   int
	timings  []SentenceTiming
	warnings []string
}

// step aligns one sentence and returns the advanced state.
func (st walkState) step(s Sentence, words []TranscriptWord, opts Options) walkState {
	tokens := normalize.Tokenize(s.Text)

	if len(tokens) == 0 {
		// Empty sentences take no transcript time and leave the cursor alone.
		at := timeAtCursor(words, st.cursor)
		timing := SentenceTiming{SentenceID: s.ID, StartMs: at, EndMs: at}
		st.timings = append(st.timings, timing)
		st.warnings = append(st.warnings, fmt.Sprintf("Sentence %s has no words to align", s.ID))
		return st
	}

	if st.cursor >= len(words) {
		// The transcript is spent; the sentence gets a zero-width slot at its end.
		at := timeAtCursor(words, st.cursor)
		timing := SentenceTiming{SentenceID: s.ID, StartMs: at, EndMs: at}
		if opts.CaptureWords {
			timing.Words = []WordTiming{}
		}
		st.timings = append(st.timings, timing)
		st.warnings = append(st.warnings, lowConfidenceWarning(timing.Confidence, s))
		return st
	}

	span := walkSentence(tokens, words, st.cursor, opts)

	timing := SentenceTiming{
		SentenceID: s.ID,
		StartMs:    secondsToMs(words[span.start].StartSec),
		EndMs:      secondsToMs(words[span.end].EndSec),
		Confidence: float64(span.matched) / float64(len(tokens)),
	}
	if opts.CaptureWords {
		timing.Words = span.words
	}

	st.timings = append(st.timings, timing)
	if timing.Confidence < LowConfidenceThreshold {
		st.warnings = append(st.warnings, lowConfidenceWarning(timing.Confidence, s))
	}
	st.cursor = span.end + 1
	return st
}

func lowConfidenceWarning(confidence float64, s Sentence) string {
	return fmt.Sprintf(
		"Low confidence (%.2f) for sentence %s: %q",
		confidence, s.ID, textPrefix(s.Text, warningPrefixLen),
	)
}

// sentenceSpan is the transcript window a sentence consumed.
type sentenceSpan struct {
	start   int
	end     int
	matched int
	words   []WordTiming
}

// walkSentence consumes transcript words for one sentence starting at cursor,
// which must be a valid index into words.
func walkSentence(tokens []string, words []TranscriptWord, cursor int, opts Options) sentenceSpan {
	last := len(words) - 1

	start, _ := LocateStart(tokens[0], words, cursor, opts.StartLookahead)
	start = min(start, last)

	span := sentenceSpan{start: start, end: start}
	if opts.CaptureWords {
		span.words = make([]WordTiming, 0, len(tokens))
	}
	sentenceStartSec := words[start].StartSec

	current := start
	for _, token := range tokens {
		hit := findToken(token, words, current, opts.TokenWindow)
		if hit < 0 {
			// Unmatchable tokens still advance so the walk cannot stall.
			current++
			span.end = min(current, last)
			continue
		}

		span.end = hit
		current = hit + 1
		span.matched++

		if opts.CaptureWords {
			w := words[hit]
			span.words = append(span.words, WordTiming{
				Word:       strings.TrimSpace(w.Text),
				StartMs:    secondsToMs(w.StartSec - sentenceStartSec),
				EndMs:      secondsToMs(w.EndSec - sentenceStartSec),
				Confidence: w.Confidence,
			})
		}
	}
	return span
}

// findToken returns the first index in [from, from+window) whose word matches
// token, or -1.
func findToken(token string, words []TranscriptWord, from, window int) int {
	end := min(from+window, len(words))
	for i := from; i < end; i++ {
		if WordsMatch(words[i].Text, token) {
			return i
		}
	}
	return -1
}

// timeAtCursor is the start of the cursor word, or the end of the transcript
// once the cursor has run past the last word.
func timeAtCursor(words []TranscriptWord, cursor int) int64 {
	if cursor < len(words) {
		return secondsToMs(words[cursor].StartSec)
	}
	return secondsToMs(words[len(words)-1].EndSec)
}

// secondsToMs converts seconds to milliseconds rounding half away from zero,
// so 1.0625s is 1063ms and -1.0625s is -1063ms.
func secondsToMs(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}

func transcriptDurationMs(words []TranscriptWord) int64 {
	if len(words) == 0 {
		return 0
	}
	return secondsToMs(words[len(words)-1].EndSec)
}

func averageConfidence(timings []SentenceTiming) float64 {
	if len(timings) == 0 {
		return 0
	}
	var sum float64
	for _, t := range timings {
		sum += t.Confidence
	}
	return sum / float64(len(timings))
}

func sortByOrder(sentences []Sentence) []Sentence {
	ordered := slices.Clone(sentences)
	slices.SortStableFunc(ordered, func(a, b Sentence) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return ordered
}

// textPrefix returns at most n runes of s, marking truncation with "...".
func textPrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func foldl[T, A any](items []T, acc A, fn func(A, T) A) A {
	for _, item := range items {
		acc = fn(acc, item)
	}
	return acc
}
