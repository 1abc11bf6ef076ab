package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

// Extractor は、Fetcher を使ってニュース一覧の取得と抽出を管理します。
type Extractor struct {
	fetcher Fetcher
	rules   Rules
	now     func() time.Time
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithClock は抽出時刻の取得に使う関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
// rules の空フィールドは既定のセレクターで補完されます。
func NewExtractor(fetcher Fetcher, rules Rules, opts ...Option) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	e := &Extractor{
		fetcher: fetcher,
		rules:   rules.WithDefaults(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FetchAndExtractNews は指定されたURLから一覧ページを取得し、ニュースを抽出します。
// 取得に失敗した場合は *types.NetworkError を返します。
func (e *Extractor) FetchAndExtractNews(ctx context.Context, url string) ([]types.NewsRecord, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, &types.NetworkError{URL: url, Err: err}
	}

	// 2. goquery.Documentに変換 (解析の責務)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}

	return e.ExtractNews(doc)
}

// ExtractNews は解析済みのドキュメントから、Item に一致する要素ごとに
// NewsRecord を1件生成します。見出しかリンクが欠けている要素があれば
// *types.MissingElementError を返し、それまでの結果は破棄されます。
func (e *Extractor) ExtractNews(doc *goquery.Document) ([]types.NewsRecord, error) {
	items := doc.Find(e.rules.Item)
	records := make([]types.NewsRecord, 0, items.Length())

	var extractErr error
	items.EachWithBreak(func(i int, item *goquery.Selection) bool {
		rec, err := e.extractItem(i, item)
		if err != nil {
			extractErr = err
			return false
		}
		records = append(records, rec)
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return records, nil
}

// extractItem は1つのコンテナからタイトル・リンク・抽出時刻を取り出します。
func (e *Extractor) extractItem(i int, item *goquery.Selection) (types.NewsRecord, error) {
	heading := item.Find(e.rules.Title).First()
	if heading.Length() == 0 {
		return types.NewsRecord{}, &types.MissingElementError{Index: i, Selector: e.rules.Title}
	}

	anchor := item.Find(e.rules.Link).First()
	if anchor.Length() == 0 {
		return types.NewsRecord{}, &types.MissingElementError{Index: i, Selector: e.rules.Link}
	}
	link, ok := anchor.Attr(e.rules.LinkAttr)
	if !ok {
		return types.NewsRecord{}, &types.MissingElementError{
			Index:    i,
			Selector: fmt.Sprintf("%s[%s]", e.rules.Link, e.rules.LinkAttr),
		}
	}

	return types.NewNewsRecord(e.title(heading), link, e.now()), nil
}

func (e *Extractor) title(heading *goquery.Selection) string {
	if e.rules.CollapseWhitespace {
		return textUtils.NormalizeText(heading.Text())
	}
	return strings.TrimSpace(heading.Text())
}
