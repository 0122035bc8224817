// Package tokenbudget estimates the token cost of a traversal page and
// enforces the per-response token ceiling.
package tokenbudget

import (
	"encoding/json"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"
)

// DefaultLimit is the default per-response token ceiling (spec
// MAX_TOKENS_PER_RESPONSE).
const DefaultLimit = 20000

// defaultEncoding is the BPE encoding used to estimate token counts when a
// real tokenizer is available.
const defaultEncoding = "cl100k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// loadEncoder lazily constructs the shared tiktoken encoder. Constructing it
// can fail (e.g. no network access to fetch the BPE ranks file on first use,
// or an unknown encoding name); callers fall back to the byte-length
// heuristic in that case. Logged once, not per estimate call.
func loadEncoder(encoding string) *tiktoken.Tiktoken {
	encOnce.Do(func() {
		if encoding == "" {
			encoding = defaultEncoding
		}

		e, err := tiktoken.GetEncoding(encoding)
		if err != nil {
			logrus.WithError(err).WithField("encoding", encoding).
				Warn("tokenbudget: falling back to length heuristic, tiktoken encoder unavailable")
			return
		}

		enc = e
	})

	return enc
}

// EstimateTokens returns the estimated token count of v once marshalled to
// JSON. It uses the shared tiktoken BPE encoder when available, and falls
// back to ceil(len(json)/4) (floored at 1) otherwise — the same heuristic
// ratio OpenAI documents for English text.
func EstimateTokens(v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 1
	}

	return EstimateTokensJSON(data)
}

// EstimateTokensJSON estimates the token count of an already-marshalled
// JSON payload.
func EstimateTokensJSON(data []byte) int {
	if e := loadEncoder(defaultEncoding); e != nil {
		return len(e.Encode(string(data), nil, nil))
	}

	return fallbackEstimate(len(data))
}

func fallbackEstimate(byteLen int) int {
	if byteLen <= 0 {
		return 1
	}

	n := (byteLen + 3) / 4
	if n < 1 {
		n = 1
	}

	return n
}

// Budget tracks cumulative token usage against a fixed limit across a single
// page's worth of incremental result-building. It is not safe for
// concurrent use — each BFS advance call owns its own Budget.
type Budget struct {
	Limit int
	used  int
}

// New creates a Budget with the given limit. A non-positive limit falls
// back to DefaultLimit.
func New(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Budget{Limit: limit}
}

// Used returns the last value recorded via Add.
func (b *Budget) Used() int {
	return b.used
}

// Remaining returns how many tokens remain before Limit is reached.
func (b *Budget) Remaining() int {
	r := b.Limit - b.used
	if r < 0 {
		return 0
	}

	return r
}

// Reset zeroes out usage tracking, for reuse across calls.
func (b *Budget) Reset() {
	b.used = 0
}

// CanAdd reports whether estimating the token count of candidate keeps the
// total at or under Limit, without mutating recorded usage.
func (b *Budget) CanAdd(candidate any) bool {
	return EstimateTokens(candidate) <= b.Limit
}

// Add records usage for the given value and reports whether it fits.
func (b *Budget) Add(candidate any) (tokens int, fits bool) {
	tokens = EstimateTokens(candidate)
	b.used = tokens

	return tokens, tokens <= b.Limit
}

// CanAddEdge checks whether the page built so far (base) plus one more edge
// (and its newly discovered node, if any) would still fit within Limit. It
// never mutates base — callers build the tentative page for themselves,
// check CanAddEdge, and only commit it to their real accumulator on success.
// This mirrors the original engine's deep-copy-then-estimate check.
func (b *Budget) CanAddEdge(tentativePage any) (tokens int, fits bool) {
	tokens = EstimateTokens(tentativePage)
	return tokens, tokens <= b.Limit
}
