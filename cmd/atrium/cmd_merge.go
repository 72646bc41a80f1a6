package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	atrium "github.com/atrium-lang/go-atrium"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <base> <overlay>",
		Short: "Merge two documents and print the result",
		Long: `Merge two documents. Blocks of the base come first, followed by the
blocks of the overlay with the same name. Blocks are never merged field by
field.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			overlay, err := loadConfig(args[1])
			if err != nil {
				return err
			}

			out, err := overlay.Merge(base).Marshal()
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func loadConfig(path string) (*atrium.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	cfg, err := atrium.ParseConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
