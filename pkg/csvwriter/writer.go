package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

// DefaultFilename は保存先が指定されなかった場合のファイル名です。
const DefaultFilename = "news.csv"

// Header は出力ファイルの1行目です。
var Header = []string{"title", "link", "date"}

// Write はヘッダーに続けて records を1行ずつ書き出します。
// 区切り文字・引用符・改行を含む値は RFC 4180 に従って引用されます。
func Write(w io.Writer, records iter.Seq[types.NewsRecord]) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("ヘッダーの書き込みに失敗しました: %w", err)
	}
	for rec := range records {
		if err := cw.Write([]string{rec.Title, rec.Link, rec.Date}); err != nil {
			return fmt.Errorf("行の書き込みに失敗しました: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSVのフラッシュに失敗しました: %w", err)
	}
	return nil
}

// Save は records を filename に保存します。既存のファイルは切り詰めて上書きされます。
// filename が空の場合は DefaultFilename を使います。失敗時は *types.IOError を返します。
func Save(records []types.NewsRecord, filename string) (err error) {
	if filename == "" {
		filename = DefaultFilename
	}

	f, err := os.Create(filename)
	if err != nil {
		return &types.IOError{Path: filename, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &types.IOError{Path: filename, Err: closeErr}
		}
	}()

	if err := Write(f, slices.Values(records)); err != nil {
		return &types.IOError{Path: filename, Err: err}
	}
	return nil
}
