package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewsense/internal/config"
	"reviewsense/internal/domain"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Dusit Zoo reviews</title>
  <item>
    <guid>review-1</guid>
    <title>Great day</title>
    <description><![CDATA[<p>Loved the <b>giraffes</b> &amp; the park 😍</p>]]></description>
    <pubDate>Fri, 01 Mar 2024 10:00:00 +0700</pubDate>
  </item>
  <item>
    <guid>review-2</guid>
    <title>Too hot</title>
  </item>
  <item>
    <guid>review-3</guid>
    <title></title>
  </item>
</channel>
</rss>`

func TestFeed_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	f := NewFeed()
	f.now = func() time.Time { return now }

	cfg := config.FeedConfig{
		URL:                srv.URL,
		Attraction:         "Dusit Zoo",
		AttractionThaiName: "สวนสัตว์ดุสิต",
		Category:           "Zoos",
	}

	subs, err := f.Fetch(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	first := subs[0]
	assert.Equal(t, "Loved the giraffes & the park 😍", first.Text)
	assert.Equal(t, "Dusit Zoo", first.Attraction)
	assert.Equal(t, "สวนสัตว์ดุสิต", first.AttractionThaiName)
	assert.Equal(t, "Zoos", first.Category)
	assert.Equal(t, domain.SourceFeed, first.Source)
	assert.Equal(t, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), first.ReceivedAt)
	assert.Equal(t, SubmissionID(srv.URL, "review-1"), first.ID)

	assert.Equal(t, "Too hot", subs[1].Text)
	assert.Equal(t, now, subs[1].ReceivedAt)
}

func TestFeed_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFeed().Fetch(context.Background(), config.FeedConfig{URL: srv.URL, Category: "Zoos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSubmissionID(t *testing.T) {
	a := SubmissionID("https://example.com/feed", "1")
	assert.Equal(t, a, SubmissionID("https://example.com/feed", "1"))
	assert.NotEqual(t, a, SubmissionID("https://example.com/feed", "2"))
	assert.NotEqual(t, a, SubmissionID("https://example.org/feed", "1"))
	assert.Len(t, a, 36)
}
