package wordcloud

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPattern matches runs of letters, digits and apostrophes starting with a letter or digit.
const DefaultPattern = `[\p{L}\p{N}_][\p{L}\p{N}_']*`

// DefaultMaxWords is the default cap on the number of scanned tokens.
const DefaultMaxWords = 200

// TokenizerOptions configures how the words and their weights are extracted from a text.
type TokenizerOptions struct {
	// Pattern is the regular expression matching a single word. Empty means DefaultPattern.
	Pattern string
	// Stopwords are excluded from the counting, regardless of their letter case.
	Stopwords []string
	// MinWordLength excludes words having fewer runes. 0 means no minimum.
	MinWordLength int
	// IncludeNumbers keeps the tokens made only of digits.
	IncludeNumbers bool
	// MaxWords caps the number of scanned tokens, before any filtering. 0 means unlimited.
	MaxWords int
	// Repeat extends a short word list up to MaxWords entries with decaying weights.
	Repeat bool
}

// DefaultTokenizerOptions returns the tokenizer defaults.
func DefaultTokenizerOptions() TokenizerOptions {
	return TokenizerOptions{
		Pattern:  DefaultPattern,
		MaxWords: DefaultMaxWords,
	}
}

// FrequencyEntry is a case folded word with its raw number of occurrences.
type FrequencyEntry struct {
	Text  string
	Count int
}

// WeightedWord is a word with its count normalized against the most frequent word.
type WeightedWord struct {
	Text   string
	Weight float64
}

// filterFn reports whether a token is kept.
type filterFn func(token string) bool

// Tokenizer converts raw text into an ordered list of weighted words.
type Tokenizer struct {
	opts    TokenizerOptions
	re      *regexp.Regexp
	filters []filterFn
}

// NewTokenizer compiles the word pattern and builds the filter pipeline.
func NewTokenizer(opts TokenizerOptions) (*Tokenizer, error) {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	re, err := regexp.Compile(opts.Pattern)
	if err != nil {
		return nil, configErrorf("pattern", "%v", err)
	}
	if opts.MinWordLength < 0 {
		return nil, configErrorf("min word length", "%d is negative", opts.MinWordLength)
	}
	if opts.MaxWords < 0 {
		return nil, configErrorf("max words", "%d is negative", opts.MaxWords)
	}

	t := &Tokenizer{opts: opts, re: re}

	// The filters are applied in this exact order.
	if len(opts.Stopwords) > 0 {
		stop := make(map[string]struct{}, len(opts.Stopwords))
		for _, w := range opts.Stopwords {
			stop[strings.ToLower(w)] = struct{}{}
		}
		t.filters = append(t.filters, func(token string) bool {
			_, ok := stop[strings.ToLower(token)]
			return !ok
		})
	}
	if opts.MinWordLength > 0 {
		t.filters = append(t.filters, func(token string) bool {
			return utf8.RuneCountInString(token) >= opts.MinWordLength
		})
	}
	if !opts.IncludeNumbers {
		t.filters = append(t.filters, func(token string) bool {
			return !isNumeric(token)
		})
	}
	return t, nil
}

// isNumeric reports whether the token is made only of numeric runes (digits, fractions, numerals).
func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return token != ""
}

// tokens returns the pattern matches which pass every filter.
func (t *Tokenizer) tokens(text string) []string {
	n := -1
	if t.opts.MaxWords > 0 {
		n = t.opts.MaxWords
	}
	matches := t.re.FindAllString(text, n)

	kept := matches[:0]
next:
	for _, m := range matches {
		for _, keep := range t.filters {
			if !keep(m) {
				continue next
			}
		}
		kept = append(kept, m)
	}
	return kept
}

// Counts returns the case folded word counts in no particular order.
// Each case insensitive cluster is represented by its most frequent variant;
// on a tie the lexicographically greatest variant wins.
func (t *Tokenizer) Counts(text string) []FrequencyEntry {
	type cluster struct {
		total    int
		variants map[string]int
	}
	var (
		clusters = make(map[string]*cluster)
		order    []string
	)
	for _, tok := range t.tokens(text) {
		key := strings.ToLower(tok)
		c, ok := clusters[key]
		if !ok {
			c = &cluster{variants: make(map[string]int)}
			clusters[key] = c
			order = append(order, key)
		}
		c.total++
		c.variants[tok]++
	}

	entries := make([]FrequencyEntry, 0, len(order))
	for _, key := range order {
		c := clusters[key]
		var best string
		bestCount := -1
		for v, n := range c.variants {
			if n > bestCount || (n == bestCount && v > best) {
				best, bestCount = v, n
			}
		}
		entries = append(entries, FrequencyEntry{Text: best, Count: c.total})
	}
	return entries
}

// Frequencies returns the words of the text ordered by descending weight,
// ties being ordered by ascending text. The weight of the most frequent word is 1.
func (t *Tokenizer) Frequencies(text string) []WeightedWord {
	entries := t.Counts(text)
	if len(entries) == 0 {
		return nil
	}

	var maxCount int
	for _, e := range entries {
		maxCount = max(maxCount, e.Count)
	}

	words := make([]WeightedWord, len(entries))
	for i, e := range entries {
		words[i] = WeightedWord{Text: e.Text, Weight: float64(e.Count) / float64(maxCount)}
	}
	SortWords(words)

	if t.opts.Repeat && t.opts.MaxWords > len(words) {
		words = RepeatWords(words, t.opts.MaxWords)
	}
	return words
}

// SortWords orders the words by descending weight and ascending text.
func SortWords(words []WeightedWord) {
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Weight != words[j].Weight {
			return words[i].Weight > words[j].Weight
		}
		return words[i].Text < words[j].Text
	})
}

// RepeatWords cyclically appends the sorted base list to itself until it holds
// at least n entries. The weights of the i-th repetition are multiplied by
// base^i, base being the weight of the last ranked word.
func RepeatWords(words []WeightedWord, n int) []WeightedWord {
	size := len(words)
	if size == 0 || n <= size {
		return words
	}
	decay := words[size-1].Weight
	times := int(math.Ceil(float64(n)/float64(size))) - 1

	out := make([]WeightedWord, 0, size*(times+1))
	out = append(out, words...)
	for i := 1; i <= times; i++ {
		f := math.Pow(decay, float64(i))
		for _, w := range words {
			out = append(out, WeightedWord{Text: w.Text, Weight: w.Weight * f})
		}
	}
	return out
}
