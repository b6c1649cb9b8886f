package overlay

import "sync"

// ViewProps はオーバーレイビューに渡す表示条件と閉じるためのコールバック。
//
// ビューは送信成功時とキャンセル時にOnCloseをちょうど1回呼ぶ。
// 2回目以降の呼び出しは無視される。
type ViewProps struct {
	IsOpen  bool
	Payload Payload
	OnClose func()
}

// Props はnameのビュー用のViewPropsを返す。
// nameがNoneの場合、OnCloseは表示中のオーバーレイを閉じる。
// OnCloseはそのビューが表示中の場合にのみCloseする。既に別のオーバーレイに
// 切り替わっていれば何もしない。
func (c *Coordinator) Props(name Name) ViewProps {
	s := c.State()
	return ViewProps{
		IsOpen:  s.IsOpen(name),
		Payload: s.Payload,
		OnClose: CloseOnce(func() {
			c.closeIf(name)
		}),
	}
}

// CloseOnce はfnを最初の1回だけ実行する関数を返す。
func CloseOnce(fn func()) func() {
	var once sync.Once
	return func() {
		once.Do(fn)
	}
}
