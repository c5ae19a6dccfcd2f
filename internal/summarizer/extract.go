package summarizer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"gonum.org/v1/gonum/mat"
)

// Extraction failures. They never leave the package: Summarize answers
// every one of them with the fallback digest.
var (
	ErrExtraction           = errors.New("sentence extraction failed")
	ErrEmptyText            = fmt.Errorf("%w: empty text", ErrExtraction)
	ErrNoSentences          = fmt.Errorf("%w: no sentences", ErrExtraction)
	ErrTooFewSentences      = fmt.Errorf("%w: fewer sentences than requested", ErrExtraction)
	ErrDegenerateMatrix     = fmt.Errorf("%w: degenerate term matrix", ErrExtraction)
	ErrTokenizerUnavailable = fmt.Errorf("%w: sentence tokenizer unavailable", ErrExtraction)
)

const (
	// lsaMinDimensions is the smallest number of singular values kept.
	lsaMinDimensions = 3
	// tfSmoothing weights the per-sentence term frequency normalization.
	tfSmoothing = 0.4
)

// extraction is the typed outcome of a sentence extraction run: either the
// selected sentences in document order, or a failure.
type extraction struct {
	sentences []string
	err       error
}

// sentenceExtractor selects the count most salient sentences of the turns.
type sentenceExtractor interface {
	extract(turns []turn, count int) extraction
}

// lsaExtractor ranks sentences with latent semantic analysis over a
// term/sentence matrix, using the punkt tokenizer to split sentences.
type lsaExtractor struct {
	mu             sync.Mutex
	tokenizer      *sentences.DefaultSentenceTokenizer
	tokenizerErr   error
	reductionRatio float64
	maxInputRunes  int
	sentenceRunes  int
}

// newLSAExtractor builds an extractor that reads at most maxInputRunes of
// attributed sentences and cuts each one to sentenceRunes.
func newLSAExtractor(reductionRatio float64, maxInputRunes, sentenceRunes int) *lsaExtractor {
	if reductionRatio <= 0 || reductionRatio > 1 {
		reductionRatio = 1
	}
	tokenizer, err := english.NewSentenceTokenizer(nil)
	return &lsaExtractor{
		tokenizer:      tokenizer,
		tokenizerErr:   err,
		reductionRatio: reductionRatio,
		maxInputRunes:  maxInputRunes,
		sentenceRunes:  sentenceRunes,
	}
}

func (e *lsaExtractor) extract(turns []turn, count int) extraction {
	if len(turns) == 0 {
		return extraction{err: ErrEmptyText}
	}
	if e.tokenizer == nil {
		return extraction{err: fmt.Errorf("%w: %v", ErrTokenizerUnavailable, e.tokenizerErr)}
	}

	sents, bodies := e.attributedSentences(turns)
	if len(sents) == 0 {
		return extraction{err: ErrNoSentences}
	}
	if count <= 0 {
		count = 1
	}
	if len(sents) < count {
		return extraction{err: fmt.Errorf("%w: have %d, want %d", ErrTooFewSentences, len(sents), count)}
	}
	if len(sents) == count {
		return extraction{sentences: sents}
	}

	ranks, err := e.rank(bodies)
	if err != nil {
		return extraction{err: err}
	}
	return extraction{sentences: pickTop(sents, ranks, count)}
}

// attributedSentences splits every message text on its own, so message
// boundaries are always sentence boundaries. It returns each sentence
// labeled with its speaker next to the bare sentence used for ranking.
// Input stops growing once maxInputRunes is reached.
func (e *lsaExtractor) attributedSentences(turns []turn) (lines, bodies []string) {
	total := 0
	for _, t := range turns {
		prefix := t.name + " said: "
		for _, text := range t.texts {
			for _, sent := range e.splitSentences(text) {
				line := truncateRunes(prefix+sent, e.sentenceRunes, ellipsis)
				n := utf8.RuneCountInString(line)
				if e.maxInputRunes > 0 && total+n > e.maxInputRunes {
					return lines, bodies
				}
				total += n + 1
				lines = append(lines, line)
				bodies = append(bodies, sent)
			}
		}
	}
	return lines, bodies
}

func (e *lsaExtractor) splitSentences(text string) []string {
	e.mu.Lock()
	tokens := e.tokenizer.Tokenize(text)
	e.mu.Unlock()

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if s := strings.TrimSpace(tok.Text); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// rank scores each sentence by the length of its vector in the reduced
// concept space: sqrt(sum_i sigma_i^2 * V[j,i]^2) over the kept dimensions.
func (e *lsaExtractor) rank(sents []string) (ranks []float64, err error) {
	matrix, err := termMatrix(sents)
	if err != nil {
		return nil, err
	}

	// gonum reports shape problems by panicking.
	defer func() {
		if r := recover(); r != nil {
			ranks = nil
			err = fmt.Errorf("%w: %v", ErrDegenerateMatrix, r)
		}
	}()

	var svd mat.SVD
	if ok := svd.Factorize(matrix, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrDegenerateMatrix)
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dims := max(lsaMinDimensions, int(float64(len(sigma))*e.reductionRatio))
	powered := make([]float64, len(sigma))
	for i, s := range sigma {
		if i < dims {
			powered[i] = s * s
		}
	}

	rows, _ := v.Dims()
	ranks = make([]float64, rows)
	for j := 0; j < rows; j++ {
		var sum float64
		for i, p := range powered {
			x := v.At(j, i)
			sum += p * x * x
		}
		ranks[j] = math.Sqrt(sum)
	}
	return ranks, nil
}

// termMatrix builds the words x sentences matrix of smoothed, per-sentence
// normalized term frequencies.
func termMatrix(sents []string) (*mat.Dense, error) {
	counts := make([]map[string]int, len(sents))
	vocab := make(map[string]struct{})
	for j, s := range sents {
		counts[j] = make(map[string]int)
		for _, w := range words(s) {
			counts[j][w]++
			vocab[w] = struct{}{}
		}
	}
	if len(vocab) == 0 {
		return nil, ErrDegenerateMatrix
	}

	terms := make([]string, 0, len(vocab))
	for w := range vocab {
		terms = append(terms, w)
	}
	sort.Strings(terms)

	rows, cols := len(terms), len(sents)
	data := make([]float64, rows*cols)
	for j := range sents {
		maxFreq := 0
		for _, c := range counts[j] {
			maxFreq = max(maxFreq, c)
		}
		if maxFreq == 0 {
			continue
		}
		for i, term := range terms {
			freq := float64(counts[j][term]) / float64(maxFreq)
			data[i*cols+j] = tfSmoothing + (1-tfSmoothing)*freq
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// words lower-cases s and splits it into content words.
func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" || isStopWord(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// pickTop returns the count highest-ranked sentences in document order.
// Ties go to the earlier sentence.
func pickTop(sents []string, ranks []float64, count int) []string {
	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] > ranks[order[b]]
	})
	if count > len(order) {
		count = len(order)
	}
	best := order[:count]
	sort.Ints(best)

	out := make([]string, 0, count)
	for _, idx := range best {
		out = append(out, sents[idx])
	}
	return out
}
