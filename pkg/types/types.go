package types

import "time"

// DateLayout は NewsRecord.Date の書式です (YYYY-MM-DD HH:MM:SS)。
const DateLayout = "2006-01-02 15:04:05"

// NewsRecord は、一覧ページから抽出された1件のニュースを保持します。
// 出力シーケンス内の位置以外に識別子はありません。
type NewsRecord struct {
	Title string // 見出しのテキスト
	Link  string // アンカーのリンク (href 属性の値そのまま)
	Date  string // 抽出時刻 (ページから読み取った値ではない)
}

// NewNewsRecord は、抽出時刻 t をローカル時刻として整形し NewsRecord を生成します。
func NewNewsRecord(title, link string, t time.Time) NewsRecord {
	return NewsRecord{
		Title: title,
		Link:  link,
		Date:  t.Local().Format(DateLayout),
	}
}
