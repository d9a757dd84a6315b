package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formmacros/pkg/extension"
)

// (potentially) injected by the linker
var (
	version   = "dev"
	builddate string
	githash   string
)

// app carries the per-invocation configuration shared by the subcommands.
type app struct {
	v      *viper.Viper
	logger *log.Logger
}

func newApp() *app {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	return &app{v: viper.New(), logger: logger}
}

// rootCommand represents the base command when called without any subcommands
func rootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "formmacros",
		Version: version,
		Short:   "Render HTML forms from pongo2 templates with form macros",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "extension configuration file (YAML)")
	flags.String("renderer", "", "renderer forms use when they declare none (default|bootstrap)")
	flags.BoolP("verbose", "v", false, "log emitted macro code and template activity")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("renderer", flags.Lookup("renderer"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(renderCommand(a))
	rootCmd.AddCommand(serveCommand(a))
	rootCmd.AddCommand(macrosCommand(a))
	rootCmd.AddCommand(versionCommand())
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("FORMMACROS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	a.logger.SetOutput(cmd.ErrOrStderr())
	if a.v.GetBool("verbose") {
		a.logger.SetLevel(log.DebugLevel)
	}
	return nil
}

// extension builds the extension from --config and --renderer.
func (a *app) extension() (*extension.Extension, error) {
	cfg := extension.DefaultConfig()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := extension.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		a.logger.WithField("config", path).Debug("extension config loaded")
	}
	if renderer := a.v.GetString("renderer"); renderer != "" {
		cfg.Renderer = renderer
	}
	return extension.New(cfg, extension.WithLogger(a.logger))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd := rootCommand(newApp())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorBad("error:"), err)
		os.Exit(1)
	}
}
