package engine

import "strings"

// RenderGrid renders a result set the way expected-output fences are written
// by hand: cells right-aligned to their column width with one space of
// padding on each side, columns joined with "|", and a dashed separator
// under the header row. Trailing spaces are trimmed per line, matching what
// the comparator normalizes away.
//
//	 sum
//	-----
//	  55
func RenderGrid(cols []string, rows [][]string) string {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow(&b, cols, widths)

	seps := make([]string, len(cols))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w+2)
	}
	b.WriteString(strings.Join(seps, "+"))
	b.WriteByte('\n')

	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := widths[i]
		parts[i] = " " + strings.Repeat(" ", w-len(cell)) + cell + " "
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, "|"), " "))
	b.WriteByte('\n')
}
