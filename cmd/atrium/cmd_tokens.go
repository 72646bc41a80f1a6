package main

import (
	"fmt"

	"github.com/spf13/cobra"

	atrium "github.com/atrium-lang/go-atrium"
)

func newTokensCmd() *cobra.Command {
	var embedded bool
	var withSpace bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the highlighting tokens of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tok := range atrium.Tokenize(text, embedded) {
				if tok.Type == atrium.TokenWhitespace && !withSpace {
					continue
				}
				if _, err := fmt.Fprintf(out, "%d:%d\t%s\t%q\n", tok.Line, tok.Column+1, tok.Type, tok.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&embedded, "embedded", "e", false, "treat the input as text with embedded blocks")
	cmd.Flags().BoolVar(&withSpace, "whitespace", false, "include whitespace tokens")

	return cmd
}
