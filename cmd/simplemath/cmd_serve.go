package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/petasbytes/simplemath/internal/orchestrator"
	"github.com/petasbytes/simplemath/internal/server"
)

// publicURLFor derives the URL animations are linked under from a listen address.
func publicURLFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:3001"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr      string
		publicURL string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the animation API, chat endpoints and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.verbose {
				log.SetLevel(log.InfoLevel)
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			if publicURL == "" {
				publicURL = publicURLFor(addr)
			}
			a.animations.BaseURL = publicURL

			srv, err := server.New(server.Config{
				Animations:   a.animations,
				Orchestrator: a.orchestrator(orchestrator.Options{}),
				Settings:     a.settings,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "serving on %s (animations at %s/animation/{id})\n", addr, publicURL)
			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3001", "listen address")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "base URL used in animation links (default derived from --addr)")
	return cmd
}
