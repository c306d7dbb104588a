package chunker

import (
	"strings"
	"testing"
)

func TestSplit_WindowProperties(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
	}{
		{"short text fits one chunk", "hello", 10, 2},
		{"exact multiple", strings.Repeat("a", 20), 10, 0},
		{"with overlap", "abcdefghijklmnopqrstuvwxyz", 10, 3},
		{"single char windows", "abcdef", 1, 0},
		{"unicode text", strings.Repeat("नमस्ते ", 40), 25, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.chunkSize, tt.overlap)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}

			runes := []rune(tt.text)
			stride := tt.chunkSize - tt.overlap

			for i, c := range chunks {
				if got := len([]rune(c.Text)); got > tt.chunkSize {
					t.Errorf("chunk %d has %d runes, limit %d", i, got, tt.chunkSize)
				}
				if c.Offset != i*stride {
					t.Errorf("chunk %d offset = %d, want %d", i, c.Offset, i*stride)
				}
			}

			// Concatenation with overlaps removed reconstructs the input.
			var rebuilt strings.Builder
			for i, c := range chunks {
				cr := []rune(c.Text)
				if i == 0 {
					rebuilt.WriteString(c.Text)
					continue
				}
				if len(cr) > tt.overlap {
					rebuilt.WriteString(string(cr[tt.overlap:]))
				} else if tail := c.Offset + len(cr) - len(runes); tail < 0 {
					t.Errorf("chunk %d ends before the text does", i)
				}
			}
			if rebuilt.String() != tt.text {
				t.Errorf("reconstruction mismatch:\n got %q\nwant %q", rebuilt.String(), tt.text)
			}
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 10)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_ConsecutiveOverlap(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog and keeps going."
	chunks, err := Split(text, 20, 5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		if len(prev) < 20 {
			continue // boundary chunk
		}
		tail := string(prev[len(prev)-5:])
		if !strings.HasPrefix(chunks[i].Text, tail) {
			t.Errorf("chunk %d does not start with the previous chunk's last 5 runes: %q vs %q", i, tail, chunks[i].Text)
		}
	}
}

func TestSplit_ConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
		{"negative overlap", 10, -1},
		{"zero size", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Split("some text", tt.chunkSize, tt.overlap); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("policy text ", 100)
	a, _ := Split(text, 50, 10)
	b, _ := Split(text, 50, 10)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
