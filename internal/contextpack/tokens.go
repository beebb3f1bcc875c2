package contextpack

import (
	"math"
	"strings"
	"unicode"
)

// stopwords are dropped from lexical scoring on both sides of the
// comparison.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "is": true, "it": true, "for": true, "on": true,
	"with": true, "this": true, "that": true, "be": true, "are": true,
	"as": true, "by": true, "at": true, "from": true, "was": true, "were": true,
}

// tokenize lowercases and splits on non-alphanumeric runs, dropping
// stopwords and tokens shorter than 2 characters.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func tokenSetOf(s string) map[string]bool {
	toks := tokenize(s)
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

// lexicalOverlap is a Jaccard-like score between the query tokens and the
// candidate tokens.
func lexicalOverlap(queryTokens map[string]bool, candidate string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	cand := tokenSetOf(candidate)
	if len(cand) == 0 {
		return 0
	}
	shared := 0
	for t := range queryTokens {
		if cand[t] {
			shared++
		}
	}
	union := len(queryTokens) + len(cand) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// cosineNormalized returns (cos+1)/2, clamped to [0,1].
func cosineNormalized(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	v := (cos + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rrfConstant is the reciprocal-rank-fusion constant.
const rrfConstant = 50

// rrfScore computes reciprocal-rank-fusion over the semantic and lexical
// rank positions (1-based; 0 means "absent from that ranking").
func rrfScore(semanticRank, lexicalRank int) float64 {
	var score float64
	if semanticRank > 0 {
		score += 1 / float64(rrfConstant+semanticRank)
	}
	if lexicalRank > 0 {
		score += 1 / float64(rrfConstant+lexicalRank)
	}
	return score
}
