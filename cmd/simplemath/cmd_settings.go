package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/internal/settings"
)

const connectionTestTimeout = 30 * time.Second

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and edit the model settings",
	}
	cmd.AddCommand(
		newSettingsShowCmd(opts),
		newSettingsSetCmd(opts),
		newSettingsResetCmd(opts),
		newSettingsExportCmd(opts),
		newSettingsImportCmd(opts),
		newSettingsSchemaCmd(),
		newSettingsTestCmd(opts),
	)
	return cmd
}

func newSettingsShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.settings.Current().Redacted()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one field: provider, apiKey, baseUrl, model, temperature, maxTokens or systemPrompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.settings.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	}
}

func newSettingsResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.settings.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings reset")
			return nil
		},
	}
}

func newSettingsExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the persisted settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if output == "" {
				return a.settings.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := a.settings.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newSettingsImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the settings with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			if err := a.settings.Import(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings imported from %s\n", args[0])
			return nil
		},
	}
}

func newSettingsSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := settings.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newSettingsTestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a short request to check the connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			if err := a.requireConfigured(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), connectionTestTimeout)
			defer cancel()
			reply, err := provider.TestConnection(ctx, a.client)
			if err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "connection ok: %s\n", reply)
			return nil
		},
	}
}
