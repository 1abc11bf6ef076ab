package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/genadygogunsky/scrapeNews/pkg/retry"
)

const (
	// MaxBodySize はレスポンスボディの最大読み込みサイズです (10MB)。
	MaxBodySize = int64(10 * 1024 * 1024)

	// maxErrorBodyLen はエラーメッセージに含めるボディの最大長です。
	maxErrorBodyLen = 1024

	// DefaultUserAgent はサイトからのブロックを避けるための固定 User-Agent です。
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ErrBodyTooLarge はボディが MaxBodySize を超えたことを示します。リトライ対象外です。
var ErrBodyTooLarge = fmt.Errorf("レスポンスボディが最大サイズ (%dバイト) を超えました", MaxBodySize)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NonRetryableHTTPError はHTTP 4xx系のステータスコードエラーを示すカスタムエラー型です。
type NonRetryableHTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *NonRetryableHTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディ: %s", e.StatusCode, truncateBody(e.Body))
	}
	return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディなし", e.StatusCode)
}

// StatusError は 4xx 以外の失敗ステータス (5xx など) を示します。リトライ対象です。
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPステータスコードエラー (リトライ対象): %d", e.StatusCode)
}

// Client はHTTP GETと指数バックオフを用いたリトライロジックを管理します。
type Client struct {
	httpClient  Doer
	retryConfig retry.Config
	userAgent   string
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithMaxRetries は最大リトライ回数を設定します。0 はリトライなしを意味します。
func WithMaxRetries(max uint64) ClientOption {
	return func(c *Client) {
		c.retryConfig.MaxRetries = max
	}
}

// WithUserAgent は送信する User-Agent を差し替えます。空文字列は無視されます。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New は、新しいClientを生成します。
// timeout が 0 以下の場合、HTTPクライアントにタイムアウトは設定されません。
func New(timeout time.Duration, options ...ClientOption) *Client {
	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}

	c := &Client{
		httpClient:  httpClient,
		retryConfig: retry.DefaultConfig(),
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// FetchBytes はURLにGETリクエストを送り、UTF-8に変換したボディを返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, true)
}

// FetchRawBytes は文字コードを変換せずにボディを返します。
// XMLフィードのように、本文側の宣言で文字コードを判定するパーサー向けです。
func (c *Client) FetchRawBytes(ctx context.Context, url string) ([]byte, error) {
	return c.fetch(ctx, url, false)
}

func (c *Client) fetch(ctx context.Context, url string, decode bool) ([]byte, error) {
	var body []byte

	op := func() error {
		var fetchErr error
		body, fetchErr = c.doFetch(ctx, url, decode)
		return fetchErr
	}

	err := retry.Do(
		ctx,
		c.retryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		c.isHTTPRetryableError,
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// doFetch は実際の一度のHTTP GETリクエストを実行します。
func (c *Client) doFetch(ctx context.Context, url string, decode bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	raw, err := readBody(resp)
	if err != nil || !decode {
		return raw, err
	}
	return decodeBody(raw, resp.Header.Get("Content-Type"))
}

// readBody はボディを読み込みます。MaxBodySize を超えた場合は途中で切り詰めず、
// エラーを返します (Content-Length の無いチャンク転送も含む)。
func readBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength > MaxBodySize {
		return nil, ErrBodyTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if int64(len(body)) > MaxBodySize {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// decodeBody は Content-Type の charset (またはHTMLのmetaタグ) に従ってUTF-8へ変換します。
func decodeBody(raw []byte, contentType string) ([]byte, error) {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, fmt.Errorf("文字コードの判定に失敗しました: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの変換に失敗しました: %w", err)
	}
	return body, nil
}

// checkResponseStatus は 2xx 以外のステータスをエラーとして返します。
// 4xx は NonRetryableHTTPError、それ以外は StatusError です。
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 499 {
		bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen+1))
		if readErr != nil {
			return &NonRetryableHTTPError{StatusCode: resp.StatusCode}
		}
		return &NonRetryableHTTPError{StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	return &StatusError{StatusCode: resp.StatusCode}
}

// IsNonRetryableError は与えられたエラーが非リトライ対象のHTTPエラーであるかを判断します。
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var nonRetryable *NonRetryableHTTPError
	return errors.As(err, &nonRetryable)
}

// isHTTPRetryableError はエラーがHTTPリトライ対象かどうかを判定します。
func (c *Client) isHTTPRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return false
	}
	// 4xx はリトライしない。5xx やネットワークエラーはリトライ対象
	return !IsNonRetryableError(err)
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyLen {
		return s[:maxErrorBodyLen] + "..."
	}
	return s
}
