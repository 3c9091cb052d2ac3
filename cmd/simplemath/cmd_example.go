package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petasbytes/simplemath/internal/animation"
)

func newExampleCmd(opts *rootOptions) *cobra.Command {
	var (
		list   bool
		create bool
	)
	cmd := &cobra.Command{
		Use:   "example [name]",
		Short: "Print a bundled p5.js example, or render it as an animation page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				fmt.Fprintln(out, strings.Join(animation.ExampleNames(), "\n"))
				return nil
			}
			name := "basic"
			if len(args) > 0 {
				name = args[0]
			}
			code := animation.Example(name)
			if !create {
				fmt.Fprintln(out, code)
				return nil
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			anim, err := a.animations.Create(cmd.Context(), animation.Spec{Code: code, Title: name})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, anim.URL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list example names")
	cmd.Flags().BoolVar(&create, "create", false, "write an animation page and print its URL")
	return cmd
}
