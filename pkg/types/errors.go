package types

import "fmt"

// NetworkError は、リクエストの失敗または 2xx 以外のステータスを示します。
// 抽出処理はこのエラーを受け取った場合、空の結果として扱われます。
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ページの取得に失敗しました (URL: %s): %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IOError は、出力ファイルのオープン・書き込み・クローズの失敗を示します。
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ファイルの保存に失敗しました (%s): %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// MissingElementError は、一致したコンテナに見出し・アンカー・リンク属性が
// 存在しないことを示します。実行全体を中断させる致命的なエラーです。
type MissingElementError struct {
	Index    int    // 一致したコンテナの位置 (0 始まり)
	Selector string // 見つからなかった要素のセレクター (属性の場合は "a[href]" 形式)
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("%d番目のニュース要素に %s が見つかりません", e.Index+1, e.Selector)
}
