package extract

import (
	"fmt"
	"strings"
)

// ----------------------------------------------------------------------
// 既定のセレクター
// ----------------------------------------------------------------------
const (
	DefaultItemSelector  = "div.news-item"
	DefaultTitleSelector = "h2"
	DefaultLinkSelector  = "a"
	DefaultLinkAttr      = "href"
)

// Rules は、ニュース要素の位置と各フィールドの取り出し方を定義します。
// 対象サイトのマークアップに合わせて設定ファイルから差し替えられます。
type Rules struct {
	Item     string `yaml:"item"`      // ニュース1件を囲むコンテナ
	Title    string `yaml:"title"`     // コンテナ内の見出し (最初の1つ)
	Link     string `yaml:"link"`      // コンテナ内のアンカー (最初の1つ)
	LinkAttr string `yaml:"link_attr"` // リンクを読み取る属性

	// CollapseWhitespace が true の場合、タイトル内の改行や連続空白を1つの空白にまとめます。
	CollapseWhitespace bool `yaml:"collapse_whitespace"`
}

// DefaultRules は既定のセレクターを返します。
func DefaultRules() Rules {
	return Rules{
		Item:     DefaultItemSelector,
		Title:    DefaultTitleSelector,
		Link:     DefaultLinkSelector,
		LinkAttr: DefaultLinkAttr,
	}
}

// WithDefaults は空のフィールドを既定値で埋めた Rules を返します。
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if strings.TrimSpace(r.Item) == "" {
		r.Item = d.Item
	}
	if strings.TrimSpace(r.Title) == "" {
		r.Title = d.Title
	}
	if strings.TrimSpace(r.Link) == "" {
		r.Link = d.Link
	}
	if strings.TrimSpace(r.LinkAttr) == "" {
		r.LinkAttr = d.LinkAttr
	}
	return r
}

// Validate は、セレクターがすべて設定されているかを確認します。
func (r Rules) Validate() error {
	fields := []struct{ name, value string }{
		{"item", r.Item},
		{"title", r.Title},
		{"link", r.Link},
		{"link_attr", r.LinkAttr},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("セレクター %q が空です", f.name)
		}
	}
	return nil
}
