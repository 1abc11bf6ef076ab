package feed

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

// FeedAdapter は gofeed.Feed を NewsRecord の列に変換するためのアダプターです。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// Records はリンクを持つアイテムだけを、フィード内の順序のまま返します。
// Date にはページの公開日ではなく取得時刻 capturedAt を使います。
func (a *FeedAdapter) Records(capturedAt time.Time) []types.NewsRecord {
	if a.Feed == nil || len(a.Items) == 0 {
		return []types.NewsRecord{}
	}

	records := make([]types.NewsRecord, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil || item.Link == "" {
			continue
		}
		records = append(records, types.NewNewsRecord(strings.TrimSpace(item.Title), item.Link, capturedAt))
	}
	return records
}
