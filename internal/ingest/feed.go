package ingest

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"reviewsense/internal/config"
	"reviewsense/internal/domain"
)

// namespace scopes submission IDs derived from feed GUIDs.
var namespace = uuid.MustParse("6f1c2a8e-4b5d-4e8f-9a3b-1d2c3e4f5a6b")

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Feed fetches RSS or Atom review feeds.
type Feed struct {
	client *http.Client
	parser *gofeed.Parser
	now    func() time.Time
}

func NewFeed() *Feed {
	return &Feed{
		client: &http.Client{Timeout: 15 * time.Second},
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

func (f *Feed) Fetch(ctx context.Context, feed config.FeedConfig) ([]domain.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	subs := make([]domain.Submission, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		text := itemText(item)
		if text == "" {
			continue
		}

		receivedAt := f.now()
		if item.PublishedParsed != nil {
			receivedAt = *item.PublishedParsed
		}

		subs = append(subs, domain.Submission{
			ID:                 SubmissionID(feed.URL, itemKey(item)),
			AttractionThaiName: feed.AttractionThaiName,
			Category:           feed.Category,
			Attraction:         feed.Attraction,
			Text:               text,
			Source:             domain.SourceFeed,
			ReceivedAt:         receivedAt.UTC(),
		})
	}

	return subs, nil
}

// SubmissionID is stable for a given feed item, so re-imports of the same
// item map to one stored review.
func SubmissionID(feedURL, key string) string {
	return uuid.NewSHA1(namespace, []byte(feedURL+"\n"+key)).String()
}

func itemKey(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link != "" {
		return item.Link
	}
	return item.Title
}

func itemText(item *gofeed.Item) string {
	for _, s := range []string{item.Content, item.Description, item.Title} {
		if text := plain(s); text != "" {
			return text
		}
	}
	return ""
}

func plain(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
