// Package summarizer turns an ordered list of chat messages into a short
// extractive synopsis. Large inputs are sampled, messages are attributed and
// grouped by turn, sentences are ranked with LSA, and any extraction failure
// degrades to a deterministic first/middle/last digest.
package summarizer

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/edgard/catchupbot/internal/config"
	"github.com/edgard/catchupbot/internal/database"
)

// NothingToSummarize is returned for an empty message list.
const NothingToSummarize = "Not enough messages to summarize yet!"

// literalThreshold is the largest input echoed line by line without extraction.
const literalThreshold = 3

// Summarizer produces extractive summaries. It is safe for concurrent use.
type Summarizer struct {
	cfg       config.SummarizerConfig
	extractor sentenceExtractor
	logger    *slog.Logger
}

// New creates a Summarizer. Loading the sentence tokenizer happens here, once.
func New(cfg config.SummarizerConfig, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg = withDefaults(cfg)

	lsa := newLSAExtractor(cfg.ReductionRatio, cfg.MaxInputChars, 2*cfg.MessageTextLimit)
	if lsa.tokenizerErr != nil {
		logger.Error("Failed to load sentence tokenizer, summaries will use the fallback digest", "error", lsa.tokenizerErr)
	}

	return &Summarizer{
		cfg:       cfg,
		extractor: lsa,
		logger:    logger.With("component", "summarizer"),
	}
}

func withDefaults(cfg config.SummarizerConfig) config.SummarizerConfig {
	if cfg.MessageTextLimit <= 0 {
		cfg.MessageTextLimit = config.DefaultMessageTextLimit
	}
	if cfg.FallbackTextLimit <= 0 {
		cfg.FallbackTextLimit = config.DefaultFallbackTextLimit
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = config.DefaultMaxInputChars
	}
	if cfg.SampleMiddle <= 0 {
		cfg.SampleMiddle = config.DefaultSampleMiddle
	}
	if cfg.ReductionRatio <= 0 {
		cfg.ReductionRatio = config.DefaultReductionRatio
	}
	return cfg
}

// SentenceCount is the number of sentences requested for n messages.
func SentenceCount(n int) int {
	switch {
	case n < 20:
		return 3
	case n < 100:
		return 5
	case n < 300:
		return 7
	default:
		return 8
	}
}

// Summarize always returns non-empty text for the given messages, which must
// be in ascending time order.
func (s *Summarizer) Summarize(ctx context.Context, messages []database.Message) string {
	n := len(messages)
	switch {
	case n == 0:
		return NothingToSummarize
	case n <= literalThreshold:
		lines := make([]string, 0, n)
		for _, msg := range messages {
			lines = append(lines, bulletLine(msg.DisplayName, msg.Text))
		}
		return strings.Join(lines, "\n")
	}

	input := messages
	if n > sampleThreshold {
		input = Sample(messages, s.cfg.SampleMiddle)
	}

	turns := groupTurns(input, s.cfg.MessageTextLimit)

	count := SentenceCount(n)
	result := s.extractor.extract(turns, count)
	switch {
	case result.err != nil:
	case len(result.sentences) == 0:
		result.err = ErrNoSentences
	case len(result.sentences) < count:
		result.err = ErrTooFewSentences
	}
	if result.err != nil {
		s.logger.WarnContext(ctx, "Extraction failed, using fallback digest",
			"messages", n, "sampled", len(input), "error", result.err)
		return Fallback(messages, s.cfg.FallbackTextLimit)
	}

	s.logger.DebugContext(ctx, "Extracted summary",
		"messages", n, "sampled", len(input), "turns", len(turns),
		"requested", count, "sentences", len(result.sentences))

	lines := make([]string, 0, len(result.sentences))
	for _, sentence := range result.sentences {
		lines = append(lines, "• "+sentence)
	}
	return strings.Join(lines, "\n")
}
