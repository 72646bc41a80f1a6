package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	atrium "github.com/atrium-lang/go-atrium"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a document in canonical form",
		Long: `Print a document in canonical form: four-space indentation, one
property per line, a blank line between blocks. Comments are not kept.

If no file is provided, reads from stdin.
Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fmtOverwrite && len(args) == 0 {
				return fmt.Errorf("-w requires a file argument")
			}

			text, name, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := atrium.ParseConfig(text)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			output, err := atrium.Marshal(cfg.Table())
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				log.Infof("rewriting %s", name)
				return os.WriteFile(name, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
