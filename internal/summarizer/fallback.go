package summarizer

import (
	"strings"

	"github.com/edgard/catchupbot/internal/database"
)

const (
	fallbackShowAll = 10
	fallbackSection = 3
	ellipsis        = "..."
)

// Fallback builds a deterministic digest without sentence ranking: every
// message for short lists, otherwise the first, middle and last three.
// Texts are cut to textLimit runes with an ellipsis.
func Fallback(messages []database.Message, textLimit int) string {
	n := len(messages)
	if n == 0 {
		return ""
	}

	var picked []int
	if n <= fallbackShowAll {
		picked = make([]int, n)
		for i := range picked {
			picked[i] = i
		}
	} else {
		mid := n / 2
		candidates := []int{0, 1, 2, mid - 1, mid, mid + 1, n - 3, n - 2, n - 1}
		seen := make(map[int]bool, len(candidates))
		for _, idx := range candidates {
			if idx < 0 || idx >= n || seen[idx] {
				continue
			}
			seen[idx] = true
			picked = append(picked, idx)
		}
	}

	lines := make([]string, 0, len(picked))
	for _, idx := range picked {
		msg := messages[idx]
		lines = append(lines, bulletLine(msg.DisplayName, truncateRunes(normalizeSpace(msg.Text), textLimit, ellipsis)))
	}
	return strings.Join(lines, "\n")
}

func bulletLine(name, text string) string {
	return "• " + name + ": " + text
}
