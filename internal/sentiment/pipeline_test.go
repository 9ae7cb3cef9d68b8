package sentiment

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewsense/internal/domain"
	"reviewsense/internal/emoji"
	"reviewsense/internal/model"
)

// --- Fakes ---

type fakeVectorizer struct {
	width int
	seen  []string
	mu    sync.Mutex
}

func (f *fakeVectorizer) Transform(text string) []float64 {
	f.mu.Lock()
	f.seen = append(f.seen, text)
	f.mu.Unlock()

	vec := make([]float64, f.width)
	if f.width > 0 {
		vec[0] = float64(len(strings.Fields(text)))
	}
	return vec
}

func (f *fakeVectorizer) Width() int { return f.width }

type fixedClassifier struct {
	width int
	score float64
	got   []float64
}

func (c *fixedClassifier) DecisionFunction(x []float64) (float64, error) {
	if len(x) != c.width {
		return 0, &domain.DimensionError{Got: len(x), Want: c.width}
	}
	c.got = x
	return c.score, nil
}

func (c *fixedClassifier) Width() int { return c.width }

func newArtifacts(vec model.Vectorizer, cls model.Classifier, weights map[string]int) *model.Artifacts {
	return &model.Artifacts{
		Vectorizer:  vec,
		Classifier:  cls,
		Emoji:       emoji.NewTable(weights),
		Fingerprint: "test",
	}
}

// --- Tests ---

func TestPipeline_ScoreScenario(t *testing.T) {
	vec := &fakeVectorizer{width: 3}
	cls := &fixedClassifier{width: 4, score: 1.2}
	p := NewPipeline(newArtifacts(vec, cls, map[string]int{"😍": 2}))

	res, err := p.Score("Amazing view 😍😍")
	require.NoError(t, err)

	assert.Equal(t, []string{"😍", "😍"}, res.Emojis)
	assert.Equal(t, 4, res.EmojiScalar)
	assert.Equal(t, domain.LabelPositive, res.Label)
	assert.InDelta(t, 1.2, res.RawScore, 1e-12)

	require.Len(t, vec.seen, 1)
	assert.Equal(t, "Amazing view ", vec.seen[0], "vectorizer sees emoji-free text")
	assert.Equal(t, []float64{2, 0, 0, 4}, cls.got, "emoji scalar is the trailing feature")
}

func TestPipeline_NoEmoji(t *testing.T) {
	p := NewPipeline(newArtifacts(&fakeVectorizer{width: 2}, &fixedClassifier{width: 3, score: -3}, nil))

	res, err := p.Score("Dirty and crowded")
	require.NoError(t, err)

	assert.NotNil(t, res.Emojis)
	assert.Empty(t, res.Emojis)
	assert.Zero(t, res.EmojiScalar)
	assert.Equal(t, domain.LabelNegative, res.Label)
}

func TestPipeline_EmptyText(t *testing.T) {
	p := NewPipeline(newArtifacts(&fakeVectorizer{width: 2}, &fixedClassifier{width: 3}, nil))

	_, err := p.Score("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_NotLoaded(t *testing.T) {
	tests := []struct {
		name      string
		artifacts *model.Artifacts
	}{
		{"nil artifacts", nil},
		{"empty artifacts", &model.Artifacts{}},
		{"missing classifier", &model.Artifacts{Vectorizer: &fakeVectorizer{width: 1}, Emoji: emoji.NewTable(nil)}},
		{"missing emoji table", &model.Artifacts{Vectorizer: &fakeVectorizer{width: 1}, Classifier: &fixedClassifier{width: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.artifacts)
			_, err := p.Score("Great place")
			assert.ErrorIs(t, err, domain.ErrModelNotLoaded)
			assert.Empty(t, p.Fingerprint())
		})
	}
}

func TestPipeline_EmptyTextCheckedBeforeArtifacts(t *testing.T) {
	_, err := NewPipeline(nil).Score("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPipeline_DimensionMismatch(t *testing.T) {
	p := NewPipeline(newArtifacts(&fakeVectorizer{width: 3}, model.NewLinearClassifier([]float64{1, 1, 1}, 0), nil))

	_, err := p.Score("Great place")
	require.ErrorIs(t, err, domain.ErrDimension)

	var dimErr *domain.DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 4, dimErr.Got)
	assert.Equal(t, 3, dimErr.Want)
}

func TestPipeline_NonFiniteScore(t *testing.T) {
	for _, score := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := NewPipeline(newArtifacts(&fakeVectorizer{width: 1}, &fixedClassifier{width: 2, score: score}, nil))

		_, err := p.Score("Great place")
		assert.ErrorIs(t, err, domain.ErrModelComputation, "score %v", score)
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	vec, err := model.LoadVectorizer(strings.NewReader(
		`{"vocabulary": {"amazing": 0, "view": 1, "dirty": 2}, "idf": [1.2, 1.0, 2.5]}`))
	require.NoError(t, err)
	cls := model.NewLinearClassifier([]float64{1.1, 0.3, -2.4, 0.5}, -0.2)
	p := NewPipeline(newArtifacts(vec, cls, map[string]int{"😍": 2, "😡": -2}))

	text := "Amazing view 😍 but dirty 😡😡"
	first, err := p.Score(text)
	require.NoError(t, err)

	for range 10 {
		again, err := p.Score(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, -2, first.EmojiScalar)
}

func TestPipeline_ConcurrentScoring(t *testing.T) {
	vec, err := model.LoadVectorizer(strings.NewReader(
		`{"vocabulary": {"great": 0, "dirty": 1}, "idf": [1.0, 1.0]}`))
	require.NoError(t, err)
	p := NewPipeline(newArtifacts(vec, model.NewLinearClassifier([]float64{2, -2, 0.5}, 0), map[string]int{"👍": 1}))

	want, err := p.Score("great 👍")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Score("great 👍")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestDecide_Threshold(t *testing.T) {
	assert.Equal(t, domain.LabelNegative, Decide(-0.5456117703308974), "boundary itself is Negative")
	assert.Equal(t, domain.LabelNegative, Decide(Threshold))
	assert.Equal(t, domain.LabelPositive, Decide(math.Nextafter(Threshold, 0)))
	assert.Equal(t, domain.LabelNegative, Decide(math.Nextafter(Threshold, -1)))
	assert.Equal(t, domain.LabelPositive, Decide(0))
	assert.Equal(t, domain.LabelNegative, Decide(-10))
}

func TestPipeline_ThresholdScoreIsNegative(t *testing.T) {
	p := NewPipeline(newArtifacts(&fakeVectorizer{width: 1}, &fixedClassifier{width: 2, score: Threshold}, nil))

	res, err := p.Score("Okay")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelNegative, res.Label)
}

func TestFuse(t *testing.T) {
	text := []float64{0.1, 0.2}
	fused := Fuse(text, -3)

	assert.Equal(t, []float64{0.1, 0.2, -3}, fused)
	assert.Equal(t, []float64{0.1, 0.2}, text)

	assert.Equal(t, []float64{7}, Fuse(nil, 7))
}
