package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petasbytes/simplemath/internal/orchestrator"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var single bool
	cmd := &cobra.Command{
		Use:   "ask <request...>",
		Short: "Run one request through the three rounds and print the reply",
		Long: "Run one request on the current conversation. With --single the request is\n" +
			"answered by one generation call using recent history and the code is printed\n" +
			"without touching the conversation.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.requireConfigured(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			prompt := strings.Join(args, " ")
			orch := a.orchestrator(orchestrator.Options{})

			if single {
				ext, err := orch.GenerateCode(cmd.Context(), prompt)
				if err != nil {
					return err
				}
				if !ext.Found {
					fmt.Fprintln(out, ext.Explanation)
					return nil
				}
				fmt.Fprintln(out, ext.Code)
				return nil
			}

			res, err := orch.SendMessage(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, res.Reply)
			if res.Animation != nil {
				fmt.Fprintf(out, "\nanimation: %s\n", res.Animation.URL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&single, "single", false, "one generation call instead of the three-round chain")
	return cmd
}
