package manifest

import (
	"strings"
)

// fenceMarker is the markdown code fence the generator wraps answers in.
const fenceMarker = "```"

// Normalize strips a wrapping markdown code fence from generator output.
//
// The text is trimmed and split into lines. When the first and the last line
// are fence markers the interior lines are returned, trimmed. Anything else is
// returned trimmed but otherwise unchanged. The opening fence may carry a
// language tag ("```yaml"); the closing fence must be bare.
//
// Normalize is idempotent: stripping repeats until no wrapping fence is left.
func Normalize(text string) string {
	out := strings.TrimSpace(text)
	for {
		inner, ok := stripFence(out)
		if !ok {
			return out
		}
		out = inner
	}
}

// stripFence removes one level of fencing and reports whether it did.
func stripFence(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])

	if len(lines) == 1 {
		// A lone fence line is both the opening and the closing fence.
		if first == fenceMarker {
			return "", true
		}
		return text, false
	}

	if !isOpeningFence(first) || last != fenceMarker {
		return text, false
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n")), true
}

func isOpeningFence(line string) bool {
	if !strings.HasPrefix(line, fenceMarker) {
		return false
	}
	tag := strings.TrimPrefix(line, fenceMarker)
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '+':
		default:
			return false
		}
	}
	return true
}
