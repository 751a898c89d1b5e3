package chunker

import "strings"

// Marker replaces every fenced code block before the text is split.
const Marker = "[CODE_BLOCK]"

const fence = "```"

// ExtractCode finds fenced code blocks in source order and returns a copy of text
// where each block (fences, language tag and payload) is replaced by Marker.
//
// An opening fence is three backticks, an optional ASCII letter tag and a newline.
// The block ends at the next three backticks, so nested fences are not recognised
// and unclosed fences stay plain text. Text outside blocks is copied unchanged.
// The scan is linear in the input length.
func ExtractCode(text string) (string, []CodeBlock) {
	var (
		out    strings.Builder
		blocks []CodeBlock
		copied int
		pos    int
	)

	for pos < len(text) {
		i := strings.Index(text[pos:], fence)
		if i < 0 {
			break
		}
		open := pos + i

		tagEnd := open + len(fence)
		for tagEnd < len(text) && isASCIILetter(text[tagEnd]) {
			tagEnd++
		}
		if tagEnd >= len(text) || text[tagEnd] != '\n' {
			// Not an opener; a later backtick may still start one.
			pos = open + 1
			continue
		}

		bodyStart := tagEnd + 1
		j := strings.Index(text[bodyStart:], fence)
		if j < 0 {
			// No closing fence anywhere after this point, so no later opener can close either.
			break
		}
		bodyEnd := bodyStart + j

		if out.Len() == 0 {
			out.Grow(len(text))
		}
		out.WriteString(text[copied:open])
		out.WriteString(Marker)
		blocks = append(blocks, CodeBlock{
			Content:  text[bodyStart:bodyEnd],
			Ordinal:  len(blocks),
			Language: text[open+len(fence) : tagEnd],
		})

		copied = bodyEnd + len(fence)
		pos = copied
	}

	if len(blocks) == 0 {
		return text, nil
	}
	out.WriteString(text[copied:])
	return out.String(), blocks
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
