// Package chunker splits normalized document text into ordered,
// bounded, overlapping segments for embedding.
package chunker

import "strings"

// Split breaks text into ordered chunks of at most maxChunkSize
// characters. Chunk boundaries prefer paragraph breaks, then sentence
// breaks, falling back to hard cuts. Consecutive chunks share up to
// overlap characters, carried over as whole natural units so that
// concatenating the chunks and dropping the repeated units restores the
// input up to whitespace. Empty or whitespace-only input yields an
// empty slice, never an error.
func Split(text string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 2
	}

	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return []string{}
	}

	units := splitUnits(text, maxChunkSize)
	if len(units) == 0 {
		return []string{}
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, ""))
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}
	}

	for _, unit := range units {
		if currentLen > 0 && currentLen+len(unit) > maxChunkSize {
			flush()

			// Seed the next chunk with trailing units of the previous
			// one, bounded by the overlap budget and the chunk size.
			var seed []string
			seedLen := 0
			for i := len(current) - 1; i >= 0; i-- {
				u := current[i]
				if seedLen+len(u) > overlap || seedLen+len(u)+len(unit) > maxChunkSize {
					break
				}
				seed = append([]string{u}, seed...)
				seedLen += len(u)
			}
			current = seed
			currentLen = seedLen
		}
		current = append(current, unit)
		currentLen += len(unit)
	}
	flush()

	return chunks
}

// splitUnits cuts text into contiguous natural units, each at most
// maxSize characters, that concatenate back to the input exactly.
// Paragraphs first, oversized paragraphs by sentence, oversized
// sentences by hard cuts.
func splitUnits(text string, maxSize int) []string {
	var units []string
	for _, para := range splitAfter(text, "\n\n") {
		if len(para) <= maxSize {
			units = append(units, para)
			continue
		}
		for _, sentence := range splitAfter(para, ". ") {
			if len(sentence) <= maxSize {
				units = append(units, sentence)
				continue
			}
			for start := 0; start < len(sentence); start += maxSize {
				end := start + maxSize
				if end > len(sentence) {
					end = len(sentence)
				}
				units = append(units, sentence[start:end])
			}
		}
	}
	return units
}

// splitAfter splits s at each occurrence of sep, keeping sep attached
// to the preceding piece and dropping empty pieces.
func splitAfter(s, sep string) []string {
	parts := strings.SplitAfter(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
