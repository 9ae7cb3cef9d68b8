package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewsense/internal/domain"
)

func negativeReview() domain.Review {
	return domain.Review{
		Attraction: "Dusit <Zoo>",
		Category:   "Zoos",
		Text:       "Dirty cages 😡",
		Label:      domain.LabelNegative,
		Score:      -1.25,
		Emojis:     []string{"😡"},
		Aspect:     "Cleanliness",
	}
}

func TestTelegram_Notify(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		chats []string
		texts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChatID    string `json:"chat_id"`
			Text      string `json:"text"`
			ParseMode string `json:"parse_mode"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "HTML", body.ParseMode)

		mu.Lock()
		paths = append(paths, r.URL.Path)
		chats = append(chats, body.ChatID)
		texts = append(texts, body.Text)
		mu.Unlock()
	}))
	defer srv.Close()

	tg := NewTelegram("token123", []string{"111", "222"})
	tg.baseURL = srv.URL

	require.NoError(t, tg.Notify(context.Background(), Notification{Review: negativeReview()}))

	assert.Equal(t, []string{"/bottoken123/sendMessage", "/bottoken123/sendMessage"}, paths)
	assert.Equal(t, []string{"111", "222"}, chats)
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Negative review")
	assert.Contains(t, texts[0], "Dusit &lt;Zoo&gt;")
	assert.Contains(t, texts[0], "Cleanliness")
	assert.Contains(t, texts[0], "-1.250")
}

func TestTelegram_NotifyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	tg := NewTelegram("token", []string{"1"})
	tg.baseURL = srv.URL

	assert.Error(t, tg.Notify(context.Background(), Notification{Review: negativeReview()}))
}

func TestFormatMessage_NoEmojis(t *testing.T) {
	r := negativeReview()
	r.Emojis = nil

	assert.Contains(t, formatMessage(Notification{Review: r}), "<b>Emojis:</b> -")
}
