package store

import (
	"math"
	"regexp"
	"strings"
)

// worstScore is assigned to records that cannot be compared to the query
// embedding (missing or mismatched dimension). They rank last rather than
// being excluded.
const worstScore = -1.0

var nonWord = regexp.MustCompile(`\W+`)

// cosineScore computes cosine similarity between the query embedding and a
// stored embedding.
func cosineScore(query, candidate []float32) float64 {
	if len(candidate) == 0 || len(candidate) != len(query) {
		return worstScore
	}

	var dot, normQ, normC float64
	for i := range query {
		q, c := float64(query[i]), float64(candidate[i])
		dot += q * c
		normQ += q * q
		normC += c * c
	}
	if normQ == 0 || normC == 0 {
		return worstScore
	}
	return dot / (math.Sqrt(normQ) * math.Sqrt(normC))
}

// tokenOverlapScore is the text-only ranking: the fraction of distinct query
// tokens that appear as substrings of the lower-cased document.
func tokenOverlapScore(queryText, document string) float64 {
	tokens := queryTokens(queryText)
	if len(tokens) == 0 {
		return 0
	}

	haystack := strings.ToLower(document)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

func queryTokens(text string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range nonWord.Split(strings.ToLower(text), -1) {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
