package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ghannotate/internal/driver"
)

var readCmd = &cobra.Command{
	Use:   "read [file|-]",
	Short: "Annotate a saved cargo JSON message stream",
	Long: `Read cargo --message-format=json output from a file, or from stdin when the
file is - or omitted, and annotate it as if cargo had just run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	return runSession(cmd, "read "+path, "read", func(ctx context.Context, _ settings, run *driver.Run, _ io.Writer) (int, error) {
		in := cmd.InOrStdin()
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return 0, fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}
		return 0, run.Consume(ctx, in)
	})
}
