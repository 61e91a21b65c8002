// Command substackfinder discovers Substack publications whose bio or name
// mentions configured keywords.
//
// Usage:
//
//	substackfinder --config config.json
//	substackfinder --urls https://lenny.substack.com,https://every.to
//	substackfinder --urls-file urls.txt
//	substackfinder demo
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}
