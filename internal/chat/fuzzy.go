// In file: internal/chat/fuzzy.go
package chat

import "strings"

// DefaultMatchThreshold is the similarity percentage a name must exceed to match.
const DefaultMatchThreshold = 70.0

// Similarity returns the similar_text percentage of a and b, compared case-insensitively:
// twice the number of shared characters over the combined length, times 100. Shared
// characters are counted by taking the longest common substring and recursing into the
// pieces left and right of it.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return float64(commonChars(ra, rb)*2) * 100 / float64(total)
}

func commonChars(a, b []rune) int {
	posA, posB, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	sum := length
	if posA > 0 && posB > 0 {
		sum += commonChars(a[:posA], b[:posB])
	}
	if posA+length < len(a) && posB+length < len(b) {
		sum += commonChars(a[posA+length:], b[posB+length:])
	}
	return sum
}

// longestCommonSubstring keeps the first maximum found, scanning a then b.
func longestCommonSubstring(a, b []rune) (int, int, int) {
	var posA, posB, best int
	for i := range a {
		for j := range b {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > best {
				posA, posB, best = i, j, k
			}
		}
	}
	return posA, posB, best
}

// Matches reports whether candidate is similar enough to query.
func Matches(candidate, query string, threshold float64) bool {
	return Similarity(candidate, query) > threshold
}
