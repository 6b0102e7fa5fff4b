// Command logiteval evaluates binary logistic regression models fitted from a
// formula against a CSV table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "logiteval:", err)
		stop()
		os.Exit(1)
	}
}
