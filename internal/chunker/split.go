package chunker

import (
	"strings"
	"unicode/utf8"
)

// boundaries are the natural break points Split looks for, in search order.
// All of them are ASCII, so their length in bytes equals their length in characters.
var boundaries = []string{
	"\n\n", // paragraph
	". ",   // sentence
	"! ",
	"? ",
	"\n# ", // markdown header
}

// Split partitions text into trimmed, non-empty chunks of at most size characters.
//
// Each window of size characters is cut at the rightmost paragraph, sentence or
// header boundary inside it, provided the boundary lies past half the window.
// Otherwise the window is cut at the size limit, which may split a word but never a
// Marker. Sizes are counted in Unicode code points; an invalid UTF-8 byte counts as
// one character and is passed through unchanged.
func Split(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, invalidSize(size)
	}

	offs := charOffsets(text)
	n := len(offs) - 1
	var chunks []string

	for start := 0; start < n; {
		end := min(start+size, n)

		if end < n {
			if b := lastBoundary(text, offs, start, end); b > start+size/2 {
				end = b + 1
			} else {
				end = avoidMarker(text, offs, start, end)
			}
		}

		if chunk := strings.TrimSpace(text[offs[start]:offs[end]]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = end
	}

	return chunks, nil
}

// charOffsets returns the byte offset of every character of text followed by
// len(text), so character i spans text[offs[i]:offs[i+1]].
func charOffsets(text string) []int {
	offs := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		offs = append(offs, i)
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return append(offs, len(text))
}

// lastBoundary returns the largest character index i in [start, end) where a
// boundary pattern starts and fits entirely before end, or -1.
func lastBoundary(text string, offs []int, start, end int) int {
	window := text[offs[start]:offs[end]]
	best := -1
	for _, pattern := range boundaries {
		i := strings.LastIndex(window, pattern)
		if i < 0 {
			continue
		}
		if c := charIndex(offs, offs[start]+i); c > best {
			best = c
		}
	}
	return best
}

// avoidMarker moves a hard cut out of a marker. The cut goes before the marker when
// that leaves a non-empty chunk, after it otherwise.
func avoidMarker(text string, offs []int, start, end int) int {
	for m := max(start, end-len(Marker)+1); m < end; m++ {
		if strings.HasPrefix(text[offs[m]:], Marker) {
			if m > start {
				return m
			}
			return m + len(Marker)
		}
	}
	return end
}

// charIndex converts a byte offset that starts a character into its index.
func charIndex(offs []int, byteOff int) int {
	lo, hi := 0, len(offs)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if offs[mid] < byteOff {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
