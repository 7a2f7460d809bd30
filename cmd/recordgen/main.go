// recordgen generates typed record accessors from an entities file.
//
//	recordgen gen -f entities.yaml -o ./models
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recordgen",
		Short:         "Generate record accessors from entity declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newGenCmd())
	return cmd
}
