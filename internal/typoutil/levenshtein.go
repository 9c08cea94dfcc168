package typoutil

// Fuzziness thresholds of the AUTO policy: terms up to MaxLengthForExact runes
// must match exactly, terms up to MaxLengthForOneEdit runes allow one edit,
// longer terms allow two.
const (
	DefaultMaxLengthForExact   = 2
	DefaultMaxLengthForOneEdit = 5
)

// MaxDistanceForLength applies the AUTO policy with explicit thresholds.
func MaxDistanceForLength(length, maxLengthForExact, maxLengthForOneEdit int) int {
	switch {
	case length <= maxLengthForExact:
		return 0
	case length <= maxLengthForOneEdit:
		return 1
	default:
		return 2
	}
}

// BoundedLevenshteinRunes computes the Levenshtein distance between a and b but
// stops as soon as the result is known to exceed maxDistance, returning
// maxDistance + 1 in that case. Callers scanning a whole dictionary decode the
// query to runes once.
func BoundedLevenshteinRunes(a, b []rune, maxDistance int) int {
	if maxDistance < 0 {
		maxDistance = 0
	}

	lenA := len(a)
	lenB := len(b)

	// Early termination: the length difference alone is a lower bound.
	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)
			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// Row minima never decrease, so the final cell cannot come back under the bound.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevRow, currRow = currRow, prevRow
	}

	if prevRow[lenB] > maxDistance {
		return maxDistance + 1
	}
	return prevRow[lenB]
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
