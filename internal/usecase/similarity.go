package usecase

// tokenOverlap computes the Jaccard similarity between two token slices
// treated as sets: |A ∩ B| / |A ∪ B|. Returns 0 when either slice is empty.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}

	union := make(map[string]bool, len(a)+len(b))
	for t := range setA {
		union[t] = true
	}

	intersection := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		union[t] = true
		if setA[t] && !seen[t] {
			intersection++
			seen[t] = true
		}
	}

	return float64(intersection) / float64(len(union))
}

// levenshteinDistance computes the standard edit distance between two
// strings over insert/delete/substitute operations, each cost 1, using the
// full (m+1) x (n+1) dynamic-programming table.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
		table[i][0] = i
	}
	for j := 0; j <= n; j++ {
		table[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			table[i][j] = min(
				table[i-1][j]+1,      // deletion
				table[i][j-1]+1,      // insertion
				table[i-1][j-1]+cost, // substitution
			)
		}
	}

	return table[m][n]
}

// stringSimilarity converts edit distance into a 0-1 ratio:
// (maxLen - distance) / maxLen. Identical non-empty strings yield 1.0;
// either string empty yields 0.0.
func stringSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	if s1 == s2 {
		return 1
	}

	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}

	return float64(maxLen-levenshteinDistance(s1, s2)) / float64(maxLen)
}
