package selftext

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines of at most width terminal cells. Existing
// newlines are kept and words longer than width are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineWidth := 0
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				out = append(out, head)
				word = word[len(head):]
			}
			if word == "" {
				continue
			}

			w := runewidth.StringWidth(word)
			if line == "" {
				line, lineWidth = word, w
				continue
			}
			if lineWidth+1+w <= width {
				line += " " + word
				lineWidth += 1 + w
				continue
			}
			out = append(out, line)
			line, lineWidth = word, w
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
