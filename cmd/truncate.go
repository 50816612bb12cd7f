package cmd

import (
	"github.com/rivo/uniseg"
)

// truncateToWidth cuts line down to at most width display cells, never
// splitting a grapheme cluster. Wide characters count as the cells they
// occupy on screen.
func truncateToWidth(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(line) <= width {
		return line
	}

	used := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster string
		var clusterWidth int
		cluster, rest, clusterWidth, state = uniseg.FirstGraphemeClusterInString(rest, state)

		if used+clusterWidth > width {
			return line[:len(line)-len(rest)-len(cluster)]
		}
		used += clusterWidth
	}

	return line
}
