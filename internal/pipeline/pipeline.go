package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/genadygogunsky/scrapeNews/internal/logger"
	"github.com/genadygogunsky/scrapeNews/pkg/csvwriter"
	"github.com/genadygogunsky/scrapeNews/pkg/types"
)

// SourceFunc は1つのURLからニュースを取得する処理です。
// extract.Extractor.FetchAndExtractNews や feed.Parser.FetchNews を渡します。
type SourceFunc func(ctx context.Context, url string) ([]types.NewsRecord, error)

// SaveFunc は抽出結果を保存する処理です。既定は csvwriter.Save です。
type SaveFunc func(records []types.NewsRecord, filename string) error

// Options は Run の入力です。
type Options struct {
	URL    string
	Output string
	Source SourceFunc
	Save   SaveFunc
	Logger logger.Logger
}

// Result は1回の実行結果です。
type Result struct {
	Records int    // 抽出できた件数
	Saved   bool   // ファイルへの保存が成功したか
	Path    string // 保存先 (Saved の場合のみ)
}

// Run は取得 → 抽出 → (1件以上あれば) 保存 を順に実行します。
//
// NetworkError と IOError はログに出力するだけで nil を返します。
// それ以外のエラー (MissingElementError など) は呼び出し元へ返され、
// 実行全体の失敗として扱われます。
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Source == nil {
		return Result{}, fmt.Errorf("pipeline.Run: Source cannot be nil")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	save := opts.Save
	if save == nil {
		save = csvwriter.Save
	}
	output := opts.Output
	if output == "" {
		output = csvwriter.DefaultFilename
	}

	// 1. 取得と抽出
	log.Debug("ニュースの取得を開始します", zap.String("url", opts.URL))
	records, err := opts.Source(ctx, opts.URL)
	if err != nil {
		var netErr *types.NetworkError
		if errors.As(err, &netErr) {
			log.Error("ページの読み込みに失敗しました", zap.String("url", netErr.URL), zap.Error(netErr.Err))
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("ニュースの抽出に失敗しました (URL: %s): %w", opts.URL, err)
	}

	result := Result{Records: len(records)}
	if len(records) == 0 {
		log.Info("ニュースが見つからなかったため保存をスキップします", zap.String("url", opts.URL))
		return result, nil
	}

	// 2. 保存
	if err := save(records, output); err != nil {
		var ioErr *types.IOError
		if errors.As(err, &ioErr) {
			log.Error("ファイルの保存に失敗しました", zap.String("path", ioErr.Path), zap.Error(ioErr.Err))
			return result, nil
		}
		return result, fmt.Errorf("ニュースの保存に失敗しました: %w", err)
	}

	log.Info("ニュースを保存しました", zap.String("path", output), zap.Int("count", len(records)))
	result.Saved = true
	result.Path = output
	return result, nil
}
