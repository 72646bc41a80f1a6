package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	atrium "github.com/atrium-lang/go-atrium"
)

var log = commonlog.GetLogger("atrium")

func newParseCmd() *cobra.Command {
	var embedded bool
	var strict bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a document and print its blocks",
		Long: `Parse a document and print every block it contains.

If no file is provided, reads from stdin. Syntax errors are printed to
stderr as file:line:column: message. In embedded mode the input is free text
and blocks are introduced by '@'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			opts := []atrium.Option{atrium.AsList()}
			if embedded {
				opts = append(opts, atrium.WithEmbedded())
			}
			if cmd.Flags().Changed("strict") {
				opts = append(opts, atrium.WithStrict(strict))
			}

			res := atrium.Parse(text, opts...)
			log.Infof("%s: %d blocks, %d errors", name, len(res.Blocks), len(res.Errors))

			out := cmd.OutOrStdout()
			if asJSON {
				err = writeJSON(out, res.Blocks)
			} else {
				err = writeBlocks(out, res.Blocks)
			}
			if err != nil {
				return err
			}

			for _, e := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", name, e.Line, e.Column+1, e.Message)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d syntax error(s)", len(res.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&embedded, "embedded", "e", false, "treat the input as text with embedded blocks")
	cmd.Flags().BoolVar(&strict, "strict", true, "stop at the first syntax error")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print blocks as JSON")

	return cmd
}

func writeBlocks(w io.Writer, blocks []*atrium.Block) error {
	enc := atrium.NewEncoder(w)
	for i, b := range blocks {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := enc.EncodeBlock(b); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	return nil
}

// jsonBlock is the JSON form of a block.
type jsonBlock struct {
	Name       string         `json:"name"`
	Attributes []any          `json:"attributes"`
	Properties map[string]any `json:"properties"`
	Call       bool           `json:"call,omitempty"`
}

func writeJSON(w io.Writer, blocks []*atrium.Block) error {
	list := make([]jsonBlock, len(blocks))
	for i, b := range blocks {
		attrs := make([]any, len(b.Attributes))
		for j, a := range b.Attributes {
			attrs[j] = a.Interface()
		}
		list[i] = jsonBlock{
			Name:       b.Name,
			Attributes: attrs,
			Properties: b.Map(),
			Call:       b.IsCall,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
