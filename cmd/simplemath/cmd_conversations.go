package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/petasbytes/simplemath/internal/export"
	"github.com/petasbytes/simplemath/memory"
)

const previewRunes = 40

func newConversationsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage stored conversations",
	}
	cmd.AddCommand(
		newConversationsListCmd(opts),
		newConversationsShowCmd(opts),
		newConversationsNewCmd(opts),
		newConversationsSwitchCmd(opts),
		newConversationsDeleteCmd(opts),
		newConversationsClearCmd(opts),
		newConversationsExportCmd(opts),
	)
	return cmd
}

// preview returns the first user message shortened to previewRunes.
func preview(c memory.Conversation) string {
	for _, m := range c.Messages {
		if m.Role != memory.RoleUser {
			continue
		}
		text := strings.Join(strings.Fields(m.Content), " ")
		r := []rune(text)
		if len(r) > previewRunes {
			return string(r[:previewRunes]) + "..."
		}
		return text
	}
	return ""
}

func newConversationsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			all := a.conversations.Conversations()
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conversations")
				return nil
			}
			cur, _ := a.conversations.Current()

			rows := make([][]string, 0, len(all))
			for _, c := range all {
				marker := ""
				if c.ID == cur.ID {
					marker = "*"
				}
				rows = append(rows, []string{
					marker,
					c.ID,
					c.UpdatedAt.Local().Format(time.DateTime),
					strconv.Itoa(len(c.Messages)),
					preview(c),
				})
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(mutedStyle).
				Headers("", "ID", "UPDATED", "MESSAGES", "FIRST REQUEST").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

// resolveConversation returns conversation args[0], or the current one.
func resolveConversation(a *app, args []string) (memory.Conversation, error) {
	if len(args) > 0 {
		c, ok := a.conversations.Get(args[0])
		if !ok {
			return memory.Conversation{}, fmt.Errorf("%w: %s", memory.ErrConversationNotFound, args[0])
		}
		return c, nil
	}
	c, ok := a.conversations.Current()
	if !ok {
		return memory.Conversation{}, errors.New("no current conversation")
	}
	return c, nil
}

func printConversation(w io.Writer, c memory.Conversation, withProgress bool) {
	fmt.Fprintln(w, mutedStyle.Render("conversation "+c.ID))
	for _, m := range c.Messages {
		if m.IsProgress && !withProgress {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n%s\n", roleLabel(m), mutedStyle.Render(m.Timestamp.Local().Format(time.DateTime)), m.Content)
		if m.GeneratedCode != "" {
			fmt.Fprintln(w, codeStyle.Render(m.GeneratedCode))
		}
	}
}

func newConversationsShowCmd(opts *rootOptions) *cobra.Command {
	var withProgress bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a conversation (default: the current one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			c, err := resolveConversation(a, args)
			if err != nil {
				return err
			}
			printConversation(cmd.OutOrStdout(), c, withProgress)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withProgress, "progress", false, "include progress messages")
	return cmd
}

func newConversationsNewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new conversation and make it current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			c := a.conversations.CreateConversation()
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}
}

func newConversationsSwitchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <id>",
		Short: "Make a conversation current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.conversations.Switch(args[0]); err != nil {
				return fmt.Errorf("switch %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "switched to %s\n", args[0])
			return nil
		},
	}
}

func newConversationsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete conversations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := a.conversations.Delete(id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}

func newConversationsClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			a.conversations.ClearAll()
			fmt.Fprintln(cmd.OutOrStdout(), "cleared all conversations")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}

func newConversationsExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export a conversation as json, yaml or markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := export.NewExporter(format)
			if err != nil {
				return err
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			c, err := resolveConversation(a, args)
			if err != nil {
				return err
			}
			if output == "" {
				return exp.Export(c, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := exp.Export(c, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", c.ID, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "md", "json, yaml or md")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
