package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

// Fetcher は Parser が依存するインターフェースです。
// 文字コードは gofeed が XML 宣言から判定するため、未変換のボディを要求します。
type Fetcher interface {
	FetchRawBytes(ctx context.Context, url string) ([]byte, error)
}

// Parser は RSS/Atom フィードを取得・解析します。
type Parser struct {
	client Fetcher
	now    func() time.Time
}

// NewParser は新しい Parser インスタンスを初期化し、依存関係を注入します。
func NewParser(client Fetcher) *Parser {
	return &Parser{client: client, now: time.Now}
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
// 取得に失敗した場合は *types.NetworkError を返します。
func (p *Parser) FetchAndParse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := p.client.FetchRawBytes(ctx, feedURL)
	if err != nil {
		return nil, &types.NetworkError{URL: feedURL, Err: fmt.Errorf("フィードの取得失敗: %w", err)}
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.Parse(bytes.NewReader(body))
	if parseErr != nil {
		return nil, fmt.Errorf("RSSフィードのパース失敗 (URL: %s): %w", feedURL, parseErr)
	}
	return feed, nil
}

// FetchNews はフィードを取得し、各アイテムを NewsRecord に変換します。
func (p *Parser) FetchNews(ctx context.Context, feedURL string) ([]types.NewsRecord, error) {
	feed, err := p.FetchAndParse(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return NewFeedAdapter(feed).Records(p.now()), nil
}
