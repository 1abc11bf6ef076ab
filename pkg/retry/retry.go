package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxRetries は 0 です。既定ではリトライせず、1回だけ実行します。
	DefaultMaxRetries = 0

	// バックオフのカスタム設定
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second
)

// Operation はリトライ可能な処理を表す関数です。成功時は nil を返します。
type Operation func() error

// ShouldRetryFunc はエラーを受け取り、そのエラーがリトライ可能かどうかを判定する関数です。
type ShouldRetryFunc func(error) bool

// Config はリトライ動作を設定するための構造体です。
type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig はデフォルト設定 (リトライなし) を返します。
func DefaultConfig() Config {
	return Config{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: InitialBackoffInterval,
		MaxInterval:     MaxBackoffInterval,
	}
}

// newBackOffPolicy は Config とコンテキストから backoff のポリシーを組み立てます。
func newBackOffPolicy(ctx context.Context, cfg Config) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval

	return backoff.WithContext(backoff.WithMaxRetries(b, cfg.MaxRetries), ctx)
}

// Do は指数バックオフとカスタムエラー判定を使用して操作を実行します。
// MaxRetries が 0 の場合、op はちょうど1回だけ呼び出されます。
func Do(ctx context.Context, cfg Config, operationName string, op Operation, shouldRetryFn ShouldRetryFunc) error {
	var (
		lastErr   error
		permanent bool
	)

	retryableOp := func() error {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if shouldRetryFn(err) {
			return err
		}
		permanent = true
		return backoff.Permanent(err)
	}

	err := backoff.Retry(retryableOp, newBackOffPolicy(ctx, cfg))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%sに失敗しました: コンテキストタイムアウト/キャンセル: %w", operationName, err)
	}
	if permanent {
		return fmt.Errorf("%sに失敗しました: %w", operationName, lastErr)
	}
	return fmt.Errorf("%sに失敗しました: 最大リトライ回数 (%d回) に到達。最終エラー: %w", operationName, cfg.MaxRetries, lastErr)
}
