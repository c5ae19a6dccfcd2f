// Package digest implements the catch-up operations behind the bot commands:
// a digest of recent chat activity, a roster of active participants and a
// per-person digest. Results are display-ready plain text.
package digest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/edgard/catchupbot/internal/database"
)

// Summarizer condenses an ordered message list into text.
type Summarizer interface {
	Summarize(ctx context.Context, messages []database.Message) string
}

// Texts holds the templates for empty results. Each takes the window label.
type Texts struct {
	NothingToSay   string
	NoParticipants string
}

// Service answers catch-up requests from the message store.
type Service struct {
	store      database.Store
	summarizer Summarizer
	loc        *time.Location
	timeout    time.Duration
	texts      Texts
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a Service. loc resolves "today"; timeout bounds each
// store call (zero means no extra bound).
func NewService(store database.Store, summarizer Summarizer, loc *time.Location, timeout time.Duration, texts Texts, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if loc == nil {
		loc = time.Local
	}
	if texts.NothingToSay == "" {
		texts.NothingToSay = "📭 No messages found %s!"
	}
	if texts.NoParticipants == "" {
		texts.NoParticipants = "💤 No one has sent messages %s yet!"
	}
	return &Service{
		store:      store,
		summarizer: summarizer,
		loc:        loc,
		timeout:    timeout,
		texts:      texts,
		now:        time.Now,
		logger:     logger.With("component", "digest"),
	}
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Digest summarizes a chat's messages within the window.
func (s *Service) Digest(ctx context.Context, chatID int64, w Window) (string, error) {
	since := w.Since(s.now(), s.loc)

	dbCtx, cancel := s.storeContext(ctx)
	messages, err := s.store.QueryWindow(dbCtx, chatID, since)
	cancel()
	if err != nil {
		return "", fmt.Errorf("failed to load messages for digest: %w", err)
	}

	if len(messages) == 0 {
		return fmt.Sprintf(s.texts.NothingToSay, w.Label()), nil
	}

	start := time.Now()
	summary := s.summarizer.Summarize(ctx, messages)
	s.logger.InfoContext(ctx, "Digest generated",
		"chat_id", chatID, "window", w.Label(), "messages", len(messages), "duration", time.Since(start))

	var b strings.Builder
	fmt.Fprintf(&b, "📝 Catch Up Summary (%s)\n\n", w.Span())
	b.WriteString(summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "👥 Participants: %s\n", strings.Join(speakerNames(messages), ", "))
	fmt.Fprintf(&b, "💬 %d messages analyzed", len(messages))
	return b.String(), nil
}

// Roster lists who was active in the chat within the window.
func (s *Service) Roster(ctx context.Context, chatID int64, w Window) (string, error) {
	since := w.Since(s.now(), s.loc)

	dbCtx, cancel := s.storeContext(ctx)
	participants, err := s.store.ListParticipants(dbCtx, chatID, since)
	cancel()
	if err != nil {
		return "", fmt.Errorf("failed to list participants: %w", err)
	}

	if len(participants) == 0 {
		return fmt.Sprintf(s.texts.NoParticipants, w.Label()), nil
	}

	lines := make([]string, 0, len(participants)+2)
	lines = append(lines, fmt.Sprintf("👥 Active %s:", w.Label()), "")
	for _, p := range participants {
		lines = append(lines, "• "+p.String())
	}
	return strings.Join(lines, "\n"), nil
}

// PersonDigest summarizes what the named participants said within the window.
// Names match display names or handles exactly, ignoring case.
func (s *Service) PersonDigest(ctx context.Context, chatID int64, names []string, w Window) (string, error) {
	since := w.Since(s.now(), s.loc)

	dbCtx, cancel := s.storeContext(ctx)
	messages, err := s.store.QueryByParticipants(dbCtx, chatID, names, since)
	cancel()
	if err != nil {
		return "", fmt.Errorf("failed to load messages for %v: %w", names, err)
	}

	who := strings.Join(names, " & ")
	if len(messages) == 0 {
		return fmt.Sprintf("📭 No messages from %s %s.\nUse /who to see who has been active.", who, w.Label()), nil
	}

	summary := s.summarizer.Summarize(ctx, messages)
	s.logger.InfoContext(ctx, "Person digest generated",
		"chat_id", chatID, "names", names, "window", w.Label(), "messages", len(messages))

	var b strings.Builder
	fmt.Fprintf(&b, "📝 What %s said (%s)\n\n", who, w.Span())
	b.WriteString(summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "💬 %d messages", len(messages))
	return b.String(), nil
}

// speakerNames returns the distinct display names in messages, sorted.
func speakerNames(messages []database.Message) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, m := range messages {
		if _, ok := seen[m.DisplayName]; ok {
			continue
		}
		seen[m.DisplayName] = struct{}{}
		names = append(names, m.DisplayName)
	}
	sort.Strings(names)
	return names
}
