// Package embed implements the letter-frequency embedding used for
// similar-topic search. It is a deliberate placeholder, not a semantic
// embedding: two topics score high when they share letter distributions,
// nothing more. The stored vectors and the 0.3 search threshold depend on
// this exact behavior, so swapping in a real embedding model changes the
// contract.
package embed

import "math"

// Dimensions is the embedding length: one slot per letter a-z.
const Dimensions = 26

// Text embeds a string as per-letter counts. Input is lower-cased and
// every non a-z rune is ignored.
func Text(s string) []float64 {
	vec := make([]float64, Dimensions)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec
}

// Cosine returns the cosine similarity between two vectors. Mismatched
// lengths or a zero-magnitude vector yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
