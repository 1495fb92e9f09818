//go:build js && wasm

package debug

import (
	"fmt"
	"syscall/js"
)

// Log はブラウザのコンソールへ出力する
func Log(format string, args ...any) {
	js.Global().Get("console").Call("debug", "[connect4] "+fmt.Sprintf(format, args...))
}
