package cmd

import (
	"fmt"
	"net/url"
	"strings"
)

// ensureScheme は取得対象URLを http/https の絶対URLにそろえます。
// "://" を含まない入力 (example.com や localhost:8080 など) はホスト名とみなし、
// https:// を補完してから検証します。
func ensureScheme(rawURL string) (string, error) {
	target := strings.TrimSpace(rawURL)
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URLにホストが含まれていません: %s", rawURL)
	}
	return target, nil
}
