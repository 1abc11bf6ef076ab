package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genadygogunsky/scrapeNews/internal/config"
	"github.com/genadygogunsky/scrapeNews/internal/pipeline"
	"github.com/genadygogunsky/scrapeNews/pkg/feed"
)

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "RSS/Atomフィードを取得・解析し、記事をCSVに保存します",
		Long:  `--url で指定したRSSまたはAtomフィードを1回だけ取得し、各記事のタイトル・リンク・取得時刻を一覧ページと同じ形式のCSVに保存します。`,
		Args:  cobra.NoArgs,
		RunE:  runFeed,
	}
}

func runFeed(cmd *cobra.Command, args []string) error {
	if appConfig.URL == config.DefaultURL && !cmd.Flags().Changed("url") {
		return fmt.Errorf("フィードのURLを --url で指定してください")
	}

	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return fmt.Errorf("HTTPクライアントの取得に失敗しました")
	}
	parser := feed.NewParser(fetcher)

	ctx, cancel := overallContext()
	defer cancel()

	_, err := pipeline.Run(ctx, pipeline.Options{
		URL:    appConfig.URL,
		Output: appConfig.Output,
		Source: parser.FetchNews,
		Logger: appLogger.With(zap.String("source", "feed")),
	})
	return err
}
