package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/petasbytes/simplemath/internal/orchestrator"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively; every message runs the three rounds",
		Long: "Start a REPL on the current conversation. Commands:\n" +
			"  /new   start a new conversation\n" +
			"  /quit  exit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.requireConfigured(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return runChat(ctx, a, cmd.InOrStdin(), out)
		},
	}
}

func runChat(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	lastRound := 0
	orch := a.orchestrator(orchestrator.Options{
		OnStatus: func(s orchestrator.Status) {
			if !s.IsProcessing {
				lastRound = 0
				return
			}
			if s.CurrentRound != lastRound {
				lastRound = s.CurrentRound
				fmt.Fprintln(out, statusLine(s))
			}
		},
	})

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	inputCh := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			scanErr <- err
		}
	}()

	fmt.Fprintln(out, "Describe a math animation (/new for a new conversation, Ctrl-C to quit)")

outer:
	for {
		fmt.Fprint(out, userStyle.Render("You")+": ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			break outer
		case line, ok = <-inputCh:
			if !ok {
				select {
				case err := <-scanErr:
					log.WithError(err).Warn("stdin read error")
				default:
				}
				break outer
			}
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/quit", "/exit":
			break outer
		case "/new":
			c := a.conversations.CreateConversation()
			fmt.Fprintln(out, mutedStyle.Render("new conversation "+c.ID))
			continue
		}

		res, err := orch.SendMessage(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break outer
			}
			fmt.Fprintln(out, errorStyle.Render("error: "+err.Error()))
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", assistantStyle.Render("Assistant"), res.Reply)
		if res.Animation != nil {
			fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("animation:"), linkStyle.Render(res.Animation.URL))
		}
	}
	return nil
}
