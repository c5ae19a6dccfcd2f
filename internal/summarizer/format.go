package summarizer

import (
	"strings"

	"github.com/edgard/catchupbot/internal/database"
)

// turn is a run of consecutive messages from one sender. Texts are already
// whitespace-normalized, truncated and terminated.
type turn struct {
	name  string
	texts []string
}

func (t turn) String() string {
	return t.name + " said: " + strings.Join(t.texts, " ")
}

// groupTurns splits messages into turns. Messages with blank text are skipped.
func groupTurns(messages []database.Message, textLimit int) []turn {
	var turns []turn
	for i, msg := range messages {
		text := normalizeSpace(msg.Text)
		if text == "" {
			continue
		}
		text = terminate(truncateRunes(text, textLimit, ""))

		if len(turns) > 0 && i > 0 && msg.SameSender(messages[i-1]) && turns[len(turns)-1].name == msg.DisplayName {
			last := &turns[len(turns)-1]
			last.texts = append(last.texts, text)
			continue
		}
		turns = append(turns, turn{name: msg.DisplayName, texts: []string{text}})
	}
	return turns
}

// Format renders messages as attributed prose for sentence extraction.
// Consecutive messages from the same sender share one block,
// "{name} said: {texts}.", and blocks are joined by a single space. Each
// message text is cut to textLimit runes so no single message dominates.
func Format(messages []database.Message, textLimit int) string {
	turns := groupTurns(messages, textLimit)
	blocks := make([]string, len(turns))
	for i, t := range turns {
		blocks[i] = t.String()
	}
	return strings.Join(blocks, " ")
}

// terminate ends s with a period unless it already ends a sentence.
func terminate(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "."), strings.HasSuffix(s, "!"), strings.HasSuffix(s, "?"), strings.HasSuffix(s, "…"):
		return s
	default:
		return s + "."
	}
}

// normalizeSpace collapses runs of whitespace, including newlines, to one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to at most limit runes, appending marker when cut.
// The marker counts toward the limit.
func truncateRunes(s string, limit int, marker string) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	keep := limit - len([]rune(marker))
	if keep < 0 {
		keep = 0
	}
	return strings.TrimRight(string(r[:keep]), " ") + marker
}
