package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -2000} {
		chunks, err := Split("some text", size)
		if !errors.Is(err, ErrInvalidChunkSize) {
			t.Errorf("Split(size=%d) error = %v, want ErrInvalidChunkSize", size, err)
		}
		if chunks != nil {
			t.Errorf("Split(size=%d) = %q, want nil", size, chunks)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{
			name: "empty input",
			text: "",
			size: 10,
			want: nil,
		},
		{
			name: "whitespace only",
			text: " \n\n\t ",
			size: 10,
			want: nil,
		},
		{
			name: "shorter than size is one chunk",
			text: "  Short text. With sentences! And more?  ",
			size: 2000,
			want: []string{"Short text. With sentences! And more?"},
		},
		{
			name: "paragraph boundary",
			text: strings.Repeat("A", 1500) + "\n\n" + strings.Repeat("B", 1500),
			size: 2000,
			want: []string{strings.Repeat("A", 1500), strings.Repeat("B", 1500)},
		},
		{
			name: "boundary before half the window is ignored",
			text: "AAA. " + strings.Repeat("B", 30),
			size: 20,
			want: []string{"AAA. " + strings.Repeat("B", 15), strings.Repeat("B", 15)},
		},
		{
			name: "header boundary",
			text: strings.Repeat("A", 12) + "\n# Title\nbody",
			size: 20,
			want: []string{strings.Repeat("A", 12), "# Title\nbody"},
		},
		{
			name: "rightmost boundary wins",
			text: strings.Repeat("A", 11) + ". BB\n\n" + strings.Repeat("C", 30),
			size: 20,
			want: []string{strings.Repeat("A", 11) + ". BB", strings.Repeat("C", 19), strings.Repeat("C", 11)},
		},
		{
			name: "sentence boundary keeps the terminator",
			text: strings.Repeat("x", 14) + "! " + strings.Repeat("y", 10),
			size: 20,
			want: []string{strings.Repeat("x", 14) + "!", strings.Repeat("y", 10)},
		},
		{
			name: "hard cut without boundary",
			text: strings.Repeat("z", 25),
			size: 10,
			want: []string{strings.Repeat("z", 10), strings.Repeat("z", 10), strings.Repeat("z", 5)},
		},
		{
			name: "hard cut never splits a marker",
			text: "abcdefgh" + Marker + strings.Repeat("t", 20),
			size: 10,
			want: []string{"abcdefgh", Marker, strings.Repeat("t", 10), strings.Repeat("t", 10)},
		},
		{
			name: "sizes count characters not bytes",
			text: "ééééé",
			size: 2,
			want: []string{"éé", "éé", "é"},
		},
		{
			name: "invalid UTF-8 passes through unchanged",
			text: "caf\xe9 latin1 text",
			size: 2000,
			want: []string{"caf\xe9 latin1 text"},
		},
		{
			name: "invalid byte counts as one character",
			text: "ab\xe9cd\xffef",
			size: 3,
			want: []string{"ab\xe9", "cd\xff", "ef"},
		},
		{
			name: "boundary after invalid bytes",
			text: "\xe9\xe9\xe9\xe9\xe9. tail words",
			size: 8,
			want: []string{"\xe9\xe9\xe9\xe9\xe9.", "tail wo", "rds"},
		},
		{
			name: "size one terminates",
			text: "a b",
			size: 1,
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.text, tt.size)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplit_ChunksRespectSizeAndMinimumFill(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString("Sentence number ")
		b.WriteString(strings.Repeat("w", i%17))
		switch i % 5 {
		case 0:
			b.WriteString(".\n\n")
		case 1:
			b.WriteString("! ")
		case 2:
			b.WriteString("? ")
		case 3:
			b.WriteString("\n# Header\n")
		default:
			b.WriteString(". ")
		}
	}
	text := b.String()
	size := 300

	chunks, err := Split(text, size)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}

	for i, chunk := range chunks {
		n := utf8.RuneCountInString(chunk)
		if n > size {
			t.Errorf("chunk %d has %d characters, more than %d", i, n, size)
		}
		// Every boundary but the last is past half the window.
		if i < len(chunks)-1 && n <= size/2-2 {
			t.Errorf("chunk %d has %d characters, below minimum fill", i, n)
		}
	}
}
