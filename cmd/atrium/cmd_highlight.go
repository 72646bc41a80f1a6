package main

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	atrium "github.com/atrium-lang/go-atrium"
)

func newHighlightCmd() *cobra.Command {
	var embedded bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print a document with ANSI syntax colors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tokens := atrium.Tokenize(text, embedded)
			if noColor {
				return writePlain(out, tokens)
			}
			return newHighlighter(termenv.NewOutput(out)).write(tokens)
		},
	}

	cmd.Flags().BoolVarP(&embedded, "embedded", "e", false, "treat the input as text with embedded blocks")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")

	return cmd
}

// highlighter renders tokens with one style per token type.
type highlighter struct {
	out    *termenv.Output
	styles map[atrium.TokenType]func(string) termenv.Style
}

func newHighlighter(out *termenv.Output) *highlighter {
	color := func(c string, bold bool) func(string) termenv.Style {
		return func(s string) termenv.Style {
			style := out.String(s).Foreground(out.Color(c))
			if bold {
				style = style.Bold()
			}
			return style
		}
	}

	return &highlighter{
		out: out,
		styles: map[atrium.TokenType]func(string) termenv.Style{
			atrium.TokenSigil:     color("5", true),
			atrium.TokenBlockName: color("4", true),
			atrium.TokenKey:       color("6", false),
			atrium.TokenString:    color("2", false),
			atrium.TokenNumber:    color("3", false),
			atrium.TokenBool:      color("5", false),
			atrium.TokenComment: func(s string) termenv.Style {
				return out.String(s).Faint().Italic()
			},
			atrium.TokenInvalid: func(s string) termenv.Style {
				return out.String(s).Foreground(out.Color("1")).Underline()
			},
		},
	}
}

func (h *highlighter) write(tokens []atrium.Token) error {
	var sb strings.Builder
	for _, tok := range tokens {
		style, ok := h.styles[tok.Type]
		if !ok {
			sb.WriteString(tok.Value)
			continue
		}
		sb.WriteString(style(tok.Value).String())
	}
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func writePlain(w io.Writer, tokens []atrium.Token) error {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Value)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
