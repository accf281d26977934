// cmd/vedit/main.go
package main

import (
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bethropolis/vedit/internal/app"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/logger"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		flags config.Flags
		debug bool
	)
	cmd := &cobra.Command{
		Use:          config.AppName + " [file]",
		Short:        "A terminal text editor with AI assistance",
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			cfg, err := config.LoadConfig(fs, flags.ConfigFilePath, &flags)
			if err != nil {
				return err
			}
			if debug {
				cfg.Logger.LogLevel = "debug"
				if cfg.Logger.LogFilePath == "" {
					cfg.Logger.LogFilePath = config.AppName + ".log"
				}
			}
			if err := logger.Setup(cfg.Logger); err != nil {
				return fmt.Errorf("logger setup: %w", err)
			}
			defer logger.Close()

			var filePath string
			if len(args) > 0 {
				filePath = args[0]
			}
			logger.Infof("Starting %s %s", config.AppName, version)
			if filePath != "" {
				logger.Debugf("File path specified: %s", filePath)
			} else {
				logger.Debugf("No file specified, starting empty.")
			}

			editorApp, err := app.NewApp(app.Options{Config: cfg, FilePath: filePath, Fs: fs})
			if err != nil {
				return fmt.Errorf("error initializing application: %w", err)
			}
			if err := editorApp.Run(); err != nil {
				return fmt.Errorf("application exited with error: %w", err)
			}
			logger.Infof("%s finished.", config.AppName)
			return nil
		},
	}
	flags.Register(cmd.Flags())
	cmd.Flags().BoolVar(&debug, "debug", false, "Shorthand for --loglevel debug, logging to "+config.AppName+".log unless --logfile is set")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		stlog.Printf("%s: %v", config.AppName, err)
		os.Exit(1)
	}
}
