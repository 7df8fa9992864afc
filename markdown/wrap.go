package markdown

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrapText word-wraps s to width terminal cells. ANSI escape sequences
// count as zero cells so already-styled spans wrap correctly. Hard line
// breaks in s are preserved. A word wider than a whole line is broken
// at grapheme boundaries.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current strings.Builder
		used    int
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		used = 0
	}

	for _, word := range words {
		w := cellWidth(word)
		switch {
		case used == 0 && w > width:
			for _, piece := range breakWord(word, width) {
				lines = append(lines, piece)
			}
			// Reuse the last piece as the current line so short words
			// can follow it.
			last := lines[len(lines)-1]
			lines = lines[:len(lines)-1]
			current.WriteString(last)
			used = cellWidth(last)
		case used == 0:
			current.WriteString(word)
			used = w
		case used+1+w > width:
			flush()
			if w > width {
				for _, piece := range breakWord(word, width) {
					lines = append(lines, piece)
				}
				last := lines[len(lines)-1]
				lines = lines[:len(lines)-1]
				current.WriteString(last)
				used = cellWidth(last)
			} else {
				current.WriteString(word)
				used = w
			}
		default:
			current.WriteByte(' ')
			current.WriteString(word)
			used += 1 + w
		}
	}
	if current.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// breakWord splits a word wider than width into grapheme-aligned pieces.
func breakWord(word string, width int) []string {
	var (
		pieces  []string
		current strings.Builder
		used    int
	)
	g := uniseg.NewGraphemes(word)
	for g.Next() {
		cluster := g.Str()
		w := rw.StringWidth(cluster)
		if used+w > width && used > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
			used = 0
		}
		current.WriteString(cluster)
		used += w
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// cellWidth measures the display width of s, skipping ANSI CSI escape
// sequences.
func cellWidth(s string) int {
	width := 0
	for i := 0; i < len(s); {
		if s[i] == 0x1b {
			if i+1 < len(s) && s[i+1] == '[' {
				j := i + 2
				for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
					j++
				}
				if j < len(s) {
					j++
				}
				i = j
			} else {
				i++
			}
			continue
		}
		next := strings.IndexByte(s[i:], 0x1b)
		if next < 0 {
			width += uniseg.StringWidth(s[i:])
			break
		}
		width += uniseg.StringWidth(s[i : i+next])
		i += next
	}
	return width
}
