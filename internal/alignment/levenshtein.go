package alignment

// Levenshtein returns the edit distance between a and b counted over Unicode
// scalar values, with unit cost for insertion, deletion and substitution.
// The cost table is allocated per call so the function stays reentrant.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// dp[j][i] is the distance between rb[:j] and ra[:i].
	dp := make([][]int, lb+1)
	for j := range dp {
		dp[j] = make([]int, la+1)
		dp[j][0] = j
	}
	for i := 0; i <= la; i++ {
		dp[0][i] = i
	}

	for j := 1; j <= lb; j++ {
		for i := 1; i <= la; i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[j][i] = min(
				dp[j-1][i]+1,      // deletion
				dp[j][i-1]+1,      // insertion
				dp[j-1][i-1]+cost, // substitution
			)
		}
	}
	return dp[lb][la]
}
