package main

import (
	"github.com/spf13/cobra"

	"github.com/atrium-lang/go-atrium/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	var embedded bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, embedded)
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVarP(&embedded, "embedded", "e", false, "treat documents as text with embedded blocks")

	return cmd
}
