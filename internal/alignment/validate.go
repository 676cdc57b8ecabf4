package alignment

import "fmt"

// Validate inspects an alignment for overlapping sentences, sentences with no
// duration and low average confidence. It never modifies the result; callers
// decide whether to act on the issues (for example by falling back to an even
// distribution of the segment duration).
func Validate(result Result) Report {
	issues := []string{}
	timings := result.SentenceTimings

	for i := 1; i < len(timings); i++ {
		prev, curr := timings[i-1], timings[i]
		if curr.StartMs < prev.EndMs {
			issues = append(issues, fmt.Sprintf(
				"Sentence %s starts at %dms, before sentence %s ends at %dms (overlap)",
				curr.SentenceID, curr.StartMs, prev.SentenceID, prev.EndMs,
			))
		}
	}

	for _, t := range timings {
		if t.EndMs <= t.StartMs {
			issues = append(issues, fmt.Sprintf(
				"Sentence %s has invalid duration (start %dms, end %dms)",
				t.SentenceID, t.StartMs, t.EndMs,
			))
		}
	}

	if result.AverageConfidence < LowConfidenceThreshold {
		issues = append(issues, fmt.Sprintf(
			"Low average alignment confidence: %.2f",
			result.AverageConfidence,
		))
	}

	return Report{
		IsValid: len(issues) == 0,
		Issues:  issues,
	}
}
