package alignment

// LocateStart finds where a sentence begins by scanning transcript words
// [from, from+lookahead) for the best match of the sentence's first token.
// The scan stops at the first exact match. When firstToken is empty or nothing
// in the window scores above zero, from is returned with confidence 0.
// A non-positive lookahead selects DefaultStartLookahead.
//
// The scan never looks behind from, which keeps the walk forward-only.
func LocateStart(firstToken string, transcript []TranscriptWord, from, lookahead int) (int, float64) {
	if firstToken == "" {
		return from, 0
	}
	if lookahead <= 0 {
		lookahead = DefaultStartLookahead
	}

	bestIndex, bestConfidence := from, 0.0
	end := min(from+lookahead, len(transcript))
	for i := max(from, 0); i < end; i++ {
		confidence := MatchConfidence(transcript[i].Text, firstToken)
		if confidence > bestConfidence {
			bestIndex, bestConfidence = i, confidence
		}
		if confidence == 1 {
			break
		}
	}
	return bestIndex, bestConfidence
}
