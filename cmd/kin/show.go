package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
)

func newShowCmd() *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "show <person-id>",
		Short: "Show a person's profile",
		Long:  "Renders a person and their relationships as styled Markdown in the terminal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				result, err := d.Relationships.HandleList(ctx, args[0], handlers.ListOptions{})
				if err != nil {
					return err
				}

				var md bytes.Buffer
				if err := handlers.WriteProfileMarkdown(&md, result); err != nil {
					return fmt.Errorf("person %s: %w", args[0], err)
				}

				if raw {
					_, err := cmd.OutOrStdout().Write(md.Bytes())
					return err
				}
				return renderMarkdown(cmd.OutOrStdout(), md.String(), width)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print plain Markdown")
	cmd.Flags().IntVar(&width, "width", DefaultShowWidth, "Word wrap width")

	return cmd
}

func renderMarkdown(out io.Writer, md string, width int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}
