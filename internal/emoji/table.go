package emoji

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// Table maps emoji tokens to signed integer weights. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	weights map[string]int
}

func NewTable(weights map[string]int) *Table {
	cp := make(map[string]int, len(weights))
	for k, v := range weights {
		cp[k] = v
	}
	return &Table{weights: cp}
}

// LoadTable decodes a JSON object of emoji -> weight.
func LoadTable(r io.Reader) (*Table, error) {
	var weights map[string]int
	if err := json.NewDecoder(r).Decode(&weights); err != nil {
		return nil, fmt.Errorf("decode emoji table: %w", err)
	}
	for k := range weights {
		if !utf8.ValidString(k) || k == "" {
			return nil, fmt.Errorf("decode emoji table: invalid key %q", k)
		}
	}
	return &Table{weights: weights}, nil
}

// Lookup returns the weight of token, or 0 when the table has no entry.
func (t *Table) Lookup(token string) int {
	return t.weights[token]
}

func (t *Table) Len() int {
	return len(t.weights)
}

// Score sums the weights of tokens. Unknown tokens contribute 0.
func (t *Table) Score(tokens []string) int {
	return Score(t, tokens)
}

// Weights is anything that can report the weight of a single emoji token.
type Weights interface {
	Lookup(token string) int
}

// Score sums the weight of each token under w. The result does not depend on
// the order of tokens.
func Score(w Weights, tokens []string) int {
	sum := 0
	for _, tok := range tokens {
		sum += w.Lookup(tok)
	}
	return sum
}
