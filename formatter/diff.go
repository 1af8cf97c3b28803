package formatter

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addedStyle   = noteStyle
	removedStyle = messageStyle
)

// Diff renders a line diff between the source and its translation.
func Diff(from, to, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString(removedStyle.Sprintf("--- %s\n", from))
	sb.WriteString(addedStyle.Sprintf("+++ %s\n", to))
	for _, d := range diffs {
		for _, line := range diffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removedStyle.Sprintf("-%s", line) + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString(addedStyle.Sprintf("+%s", line) + "\n")
			default:
				sb.WriteString(" " + line + "\n")
			}
		}
	}
	return sb.String()
}

// diffLines splits a diff chunk into lines; a trailing newline does not
// start another line.
func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
