package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/floats"
)

// Runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\pL\pN_]{2,}`)

// TfidfVectorizer reproduces a fitted bag-of-n-grams TF-IDF transform.
// Without IDF weights it degrades to a term count vectorizer.
type TfidfVectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	width        int
	lowercase    bool
	stripAccents bool
	ngramMin     int
	ngramMax     int
	sublinearTF  bool
	norm         string
}

type vectorizerFile struct {
	Vocabulary   map[string]int  `json:"vocabulary"`
	IDF          []float64       `json:"idf"`
	Lowercase    *bool           `json:"lowercase"`
	StripAccents bool            `json:"strip_accents"`
	NgramRange   [2]int          `json:"ngram_range"`
	SublinearTF  bool            `json:"sublinear_tf"`
	Norm         json.RawMessage `json:"norm"`
}

// LoadVectorizer decodes a vectorizer exported as JSON.
func LoadVectorizer(r io.Reader) (*TfidfVectorizer, error) {
	var f vectorizerFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode vectorizer: %w", err)
	}
	if len(f.Vocabulary) == 0 {
		return nil, errors.New("decode vectorizer: empty vocabulary")
	}

	v := &TfidfVectorizer{
		vocabulary:   f.Vocabulary,
		idf:          f.IDF,
		lowercase:    true,
		stripAccents: f.StripAccents,
		ngramMin:     f.NgramRange[0],
		ngramMax:     f.NgramRange[1],
		sublinearTF:  f.SublinearTF,
	}
	if f.Lowercase != nil {
		v.lowercase = *f.Lowercase
	}
	if v.ngramMin == 0 && v.ngramMax == 0 {
		v.ngramMin, v.ngramMax = 1, 1
	}
	if v.ngramMin < 1 || v.ngramMax < v.ngramMin {
		return nil, fmt.Errorf("decode vectorizer: invalid ngram_range %v", f.NgramRange)
	}

	maxIndex := -1
	for term, idx := range f.Vocabulary {
		if idx < 0 {
			return nil, fmt.Errorf("decode vectorizer: negative column for %q", term)
		}
		maxIndex = max(maxIndex, idx)
	}

	if len(f.IDF) > 0 {
		if maxIndex >= len(f.IDF) {
			return nil, fmt.Errorf("decode vectorizer: column %d out of range for %d idf weights", maxIndex, len(f.IDF))
		}
		v.width = len(f.IDF)
		v.norm = "l2"
	} else {
		v.width = maxIndex + 1
	}
	// An explicit null disables normalisation; only an absent key defaults.
	if len(f.Norm) > 0 {
		var n *string
		if err := json.Unmarshal(f.Norm, &n); err != nil {
			return nil, fmt.Errorf("decode vectorizer: norm: %w", err)
		}
		v.norm = ""
		if n != nil {
			v.norm = *n
		}
	}
	switch v.norm {
	case "", "l1", "l2":
	default:
		return nil, fmt.Errorf("decode vectorizer: unsupported norm %q", v.norm)
	}

	return v, nil
}

func (v *TfidfVectorizer) Width() int {
	return v.width
}

// Transform maps text onto the fitted vocabulary. Terms outside the
// vocabulary are ignored.
func (v *TfidfVectorizer) Transform(text string) []float64 {
	vec := make([]float64, v.width)

	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}

	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if v.idf != nil {
			tf *= v.idf[i]
		}
		vec[i] = tf
	}

	switch v.norm {
	case "l2":
		normalize(vec, 2)
	case "l1":
		normalize(vec, 1)
	}

	return vec
}

func normalize(vec []float64, l float64) {
	n := floats.Norm(vec, l)
	if n == 0 {
		return
	}
	floats.Scale(1/n, vec)
}

func (v *TfidfVectorizer) analyze(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	if v.stripAccents {
		text = removeAccents(text)
	}

	tokens := tokenPattern.FindAllString(text, -1)
	if v.ngramMax == 1 {
		return tokens
	}

	var terms []string
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func removeAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFKD.String(s))
}
