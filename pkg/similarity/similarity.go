// Package similarity provides normalized string similarity scoring for
// matching source column headers against catalog property names.
//
// Scores are in [0,1] and symmetric: Score(a, b) == Score(b, a). The score
// blends an edit-distance sub-score with a Jaro-Winkler sub-score so that
// matching prefixes and in-order common characters are rewarded beyond what
// raw edit distance gives.
package similarity

import (
	"strings"
	"unicode"
)

// Sub-score weights. Both inputs are normalized before scoring, so the two
// measures disagree mainly on transpositions and shared prefixes.
const (
	editWeight  = 0.5
	jaroWeight  = 0.5
	prefixScale = 0.1 // Winkler prefix bonus scale
	maxPrefix   = 4   // Winkler common-prefix cap
)

// Score computes a normalized similarity between two tokens in [0,1].
// Inputs are normalized first; an exact match after normalization
// short-circuits to 1.0.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	edit := editScore(na, nb)
	jaro := jaroWinkler(na, nb)

	score := editWeight*edit + jaroWeight*jaro
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Normalize lower-cases, strips punctuation, and joins word tokens with a
// single space. "BUS_NAME", "BusName", and "bus name" all normalize to
// "bus name".
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens splits a string into lower-cased word tokens on case transitions,
// underscores, spaces, and any other non-alphanumeric boundary.
func Tokens(s string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			// Split on lower→upper transitions ("BusName") and on the last
			// upper of an acronym run ("KVRating" → kv, rating).
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			current.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			// Split between letters and digits ("transformer2w" → transformer, 2w
			// stays joined only within the digit run).
			if i > 0 && unicode.IsLetter(runes[i-1]) && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// editScore is one minus the normalized Levenshtein distance: distance
// divided by the longer string's length.
func editScore(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 0
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longer)
}

// levenshtein computes the edit distance between two rune slices using a
// single-row dynamic programming table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = next
		}
	}

	return row[len(b)]
}

// jaroWinkler computes the Jaro similarity with the Winkler common-prefix
// bonus. Tolerant of transpositions and minor reordering.
func jaroWinkler(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	jaro := jaroSimilarity(ra, rb)
	if jaro == 0 {
		return 0
	}

	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < maxPrefix && ra[prefix] == rb[prefix] {
		prefix++
	}

	return jaro + float64(prefix)*prefixScale*(1-jaro)
}

// jaroSimilarity computes the base Jaro similarity between two rune slices.
func jaroSimilarity(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max2(len(a), len(b))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))

	matches := 0
	for i := range a {
		lo := max2(0, i-window)
		hi := min2(len(b)-1, i+window)
		for j := lo; j <= hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions among matched characters.
	transpositions := 0
	j := 0
	for i := range a {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min3(a, b, c int) int {
	return min2(a, min2(b, c))
}
