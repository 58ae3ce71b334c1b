package diag

import "strings"

// footerLine is one physical output line of a help/note block, already
// indented to align continuation lines under the first character of the
// message (spec.md §4.G).
type footerLine struct {
	kind Category // CategoryNote for both helps and notes; they share styling
	text string
}

// buildFooters implements component G: numbering help/note blocks when more
// than one of a kind is present, and indenting wrapped lines to align under
// the first character of the message.
func buildFooters(helps, notes []string) []footerLine {
	var out []footerLine
	out = append(out, footerBlock("Help", helps)...)
	out = append(out, footerBlock("Note", notes)...)
	return out
}

func footerBlock(word string, items []string) []footerLine {
	var out []footerLine
	for i, item := range items {
		var prefix string
		if len(items) > 1 {
			prefix = word + " " + itoa(i+1) + ": "
		} else {
			prefix = word + ": "
		}
		indent := strings.Repeat(" ", len(prefix))
		lines := strings.Split(item, "\n")
		for j, l := range lines {
			if j == 0 {
				out = append(out, footerLine{kind: CategoryNote, text: prefix + l})
			} else {
				out = append(out, footerLine{kind: CategoryNote, text: indent + l})
			}
		}
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
