package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/petasbytes/simplemath/internal/kvstore"
	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/internal/settings"
)

type rootOptions struct {
	configPath string
	dataDir    string
	storage    string
	verbose    bool
	logFormat  string

	// newClient overrides the completion client, nil means provider.New.
	newClient func(settings.Source) provider.Client

	app *app
}

func defaultDataDir() string {
	if dir, ok := os.LookupEnv("SM_DATA_DIR"); ok && dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".simplemath"
	}
	return filepath.Join(home, ".simplemath")
}

func (o *rootOptions) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "settings file (.yaml, .yml or .toml) used as the baseline")
	fs.StringVar(&o.dataDir, "data-dir", defaultDataDir(), "directory holding conversations, settings and animation pages")
	fs.StringVar(&o.storage, "storage", kvstore.BackendFile, "storage backend: file, bolt, sqlite or memory")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
}

func (o *rootOptions) setupLogging(w io.Writer) error {
	log.SetOutput(w)
	switch o.logFormat {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unsupported log format: %s (supported: text, json)", o.logFormat)
	}
	log.SetLevel(log.WarnLevel)
	if o.verbose {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// newRootCmdWith creates the root simplemath command with all subcommands attached.
func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplemath",
		Short: "Turn math ideas into p5.js animations",
		Long: "simplemath chains three model calls (requirement analysis, technical assessment,\n" +
			"code generation) to turn a request into runnable p5.js code and an animation page.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd.ErrOrStderr())
		},
	}
	opts.bindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newServeCmd(opts),
		newConversationsCmd(opts),
		newSettingsCmd(opts),
		newExampleCmd(opts),
	)
	return cmd
}
