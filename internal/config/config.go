package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/genadygogunsky/scrapeNews/pkg/csvwriter"
	"github.com/genadygogunsky/scrapeNews/pkg/extract"
	"github.com/genadygogunsky/scrapeNews/pkg/httpclient"
)

// DefaultURL は取得対象の一覧ページの既定値です。
const DefaultURL = "https://example-news-site.com"

// Config は1回の実行に必要な設定をまとめたものです。
// 設定ファイルが無くても Default() の値だけで実行できます。
type Config struct {
	URL        string        `yaml:"url"`
	Output     string        `yaml:"output"`
	UserAgent  string        `yaml:"user_agent"`
	TimeoutSec int           `yaml:"timeout_sec"` // 0 はタイムアウトなし
	MaxRetries uint64        `yaml:"max_retries"` // 0 はリトライなし
	Selectors  extract.Rules `yaml:"selectors"`
}

// Default は既定の設定を返します。
func Default() *Config {
	return &Config{
		URL:       DefaultURL,
		Output:    csvwriter.DefaultFilename,
		UserAgent: httpclient.DefaultUserAgent,
		Selectors: extract.DefaultRules(),
	}
}

// Load は既定値の上に YAML ファイル path の内容を重ねて読み込みます。
// path が空の場合は既定値をそのまま返します。
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定ファイルが不正です (%s): %w", path, err)
	}
	return cfg, nil
}

// applyDefaults は YAML で空にされた値を既定値に戻します。
func (c *Config) applyDefaults() {
	d := Default()
	if strings.TrimSpace(c.URL) == "" {
		c.URL = d.URL
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = d.Output
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = d.UserAgent
	}
	c.Selectors = c.Selectors.WithDefaults()
}

// Validate は設定値の整合性を確認します。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("url must not be empty")
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("timeout_sec cannot be negative")
	}
	return c.Selectors.Validate()
}
