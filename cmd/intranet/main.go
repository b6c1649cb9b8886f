// Command intranet はソーシャルイントラネットのAPIサーバーと端末クライアントを起動する。
//
//	intranet [serve|migrate|healthcheck|tui]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/intranet/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "intranet: %v\n", err)
		os.Exit(1)
	}
}
