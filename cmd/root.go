package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genadygogunsky/scrapeNews/internal/config"
	"github.com/genadygogunsky/scrapeNews/internal/logger"
	"github.com/genadygogunsky/scrapeNews/internal/pipeline"
	"github.com/genadygogunsky/scrapeNews/pkg/extract"
	"github.com/genadygogunsky/scrapeNews/pkg/httpclient"
)

// --- グローバル定数 ---

const (
	appName = "scrape-news"

	// 全体処理のタイムアウトはクライアントタイムアウトの2倍
	overallTimeoutFactor = 2
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
// (--config と --verbose は clibase.Flags 側で定義される)
type AppFlags struct {
	URL        string // --url 取得対象の一覧ページ
	Output     string // --output 保存先CSV
	UserAgent  string // --user-agent
	TimeoutSec int    // --timeout タイムアウト (0 はなし)
	MaxRetries uint64 // --max-retries リトライ回数 (0 はなし)
}

var (
	Flags         AppFlags
	appConfig     *config.Config
	appLogger     logger.Logger = logger.NewNop()
	globalFetcher *httpclient.Client
)

// newRootCmd はルートコマンドとサブコマンドを組み立てます。
// 引数なしで実行すると、一覧ページの取得 → 抽出 → CSV保存 を行います。
func newRootCmd() *cobra.Command {
	Flags = AppFlags{}

	// clibase がルートコマンドと共通フラグ (--config, --verbose) を生成し、
	// PersistentPreRunE の後に initAppPreRunE を呼び出す
	rootCmd := clibase.NewRootCmd(appName, addAppPersistentFlags, initAppPreRunE)
	rootCmd.Short = "ニュース一覧ページから記事のタイトルとリンクを抽出し、CSVに保存します"
	rootCmd.Long = `一覧ページを1回だけ取得し、セレクターに一致する要素ごとにタイトル・リンク・取得時刻を抽出して CSV (title,link,date) に保存します。`
	rootCmd.Args = cobra.NoArgs
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = appLogger.Sync()
	}
	rootCmd.RunE = runScrape
	rootCmd.AddCommand(newFeedCmd())

	return rootCmd
}

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&Flags.URL, "url", "u", config.DefaultURL, "取得対象のURL")
	pf.StringVarP(&Flags.Output, "output", "o", "", "保存先のCSVファイル (既定: news.csv)")
	pf.StringVar(&Flags.UserAgent, "user-agent", httpclient.DefaultUserAgent, "送信する User-Agent")
	pf.IntVar(&Flags.TimeoutSec, "timeout", 0, "HTTPリクエストのタイムアウト時間（秒, 0 はなし）")
	pf.Uint64Var(&Flags.MaxRetries, "max-retries", 0, "HTTPリクエストのリトライ最大回数 (0 はなし)")
}

// initAppPreRunE は設定・ロガー・共有フェッチャーを初期化します。
// コマンドラインで明示されたフラグは設定ファイルの値より優先されます。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(clibase.Flags.ConfigFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	cfg.URL, err = ensureScheme(cfg.URL)
	if err != nil {
		return fmt.Errorf("URLスキームの処理エラー: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定が不正です: %w", err)
	}
	appConfig = cfg

	level := "info"
	if clibase.Flags.Verbose {
		level = "debug"
	}
	appLogger, err = logger.New(logger.Config{Level: level})
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	appLogger.Debug("HTTPクライアントを設定しました",
		zap.Duration("timeout", timeout),
		zap.Uint64("max_retries", cfg.MaxRetries),
		zap.String("user_agent", cfg.UserAgent),
	)

	globalFetcher = httpclient.New(
		timeout,
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithUserAgent(cfg.UserAgent),
	)
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = Flags.URL
	}
	if flags.Changed("output") {
		cfg.Output = Flags.Output
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = Flags.UserAgent
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSec = Flags.TimeoutSec
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = Flags.MaxRetries
	}
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() *httpclient.Client {
	return globalFetcher
}

// overallContext は全体処理のコンテキストを返します。
// タイムアウト未指定の場合は期限を設けません。
func overallContext() (context.Context, context.CancelFunc) {
	if appConfig == nil || appConfig.TimeoutSec <= 0 {
		return context.WithCancel(context.Background())
	}
	overall := time.Duration(appConfig.TimeoutSec*overallTimeoutFactor) * time.Second
	return context.WithTimeout(context.Background(), overall)
}

// runScrape は一覧ページの取得 → 抽出 → CSV保存 を実行します。
func runScrape(cmd *cobra.Command, args []string) error {
	fetcher := GetGlobalFetcher()
	if fetcher == nil {
		return fmt.Errorf("HTTPクライアントが初期化されていません")
	}

	extractor, err := extract.NewExtractor(fetcher, appConfig.Selectors)
	if err != nil {
		return fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	ctx, cancel := overallContext()
	defer cancel()

	_, err = pipeline.Run(ctx, pipeline.Options{
		URL:    appConfig.URL,
		Output: appConfig.Output,
		Source: extractor.FetchAndExtractNews,
		Logger: appLogger.With(zap.String("source", "html")),
	})
	return err
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行するメイン関数です。
// 致命的なエラーは標準出力に表示し、終了コード 1 で終了します。
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "アプリケーションエラー: %v\n", err)
		os.Exit(1)
	}
}
