package chunker

import "fmt"

// Chunk is one fixed-size window of the source text. Offset is the rune
// offset of the window start in the original text.
type Chunk struct {
	Text   string
	Offset int
}

// Split advances a window of chunkSize runes across text with stride
// chunkSize-overlap. Consecutive chunks share exactly overlap runes; the
// final chunk may be shorter. Pure function of its input.
func Split(text string, chunkSize, overlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunker: chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunker: overlap %d must satisfy 0 <= overlap < chunk size %d", overlap, chunkSize)
	}

	runes := []rune(text)
	stride := chunkSize - overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:   string(runes[start:end]),
			Offset: start,
		})
	}
	return chunks, nil
}
