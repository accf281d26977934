// internal/config/flags.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bethropolis/vedit/internal/logger"
)

// Flags holds values bound to command-line flags. Only flags the user
// actually set override the configuration.
type Flags struct {
	set *pflag.FlagSet

	ConfigFilePath  string
	LogLevel        string
	LogFilePath     string
	TabWidth        int
	Theme           string
	EnableTags      string
	DisableTags     string
	EnablePkgs      string
	DisablePkgs     string
	SystemClipboard bool
	Insert          bool
	Model           string
	Review          bool
}

// Register defines the flags on fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	f.set = fs
	fs.StringVarP(&f.ConfigFilePath, "config", "c", "", fmt.Sprintf("Path to a TOML or YAML config file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	fs.StringVar(&f.LogLevel, "loglevel", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFilePath, "logfile", "", "Log file path, '-' for stderr")
	fs.IntVar(&f.TabWidth, "tabwidth", 0, "Number of spaces per tab")
	fs.StringVar(&f.Theme, "theme", "", "Theme name")
	fs.StringVar(&f.EnableTags, "log-tags", "", "Comma-separated list of log tags to enable")
	fs.StringVar(&f.DisableTags, "log-disable-tags", "", "Comma-separated list of log tags to disable")
	fs.StringVar(&f.EnablePkgs, "log-packages", "", "Comma-separated list of packages to log")
	fs.StringVar(&f.DisablePkgs, "log-disable-packages", "", "Comma-separated list of packages to silence")
	fs.BoolVar(&f.SystemClipboard, "system-clipboard", true, "Yank to the system clipboard")
	fs.BoolVar(&f.Insert, "insert", false, "Start in insert mode instead of overwrite")
	fs.StringVar(&f.Model, "model", "", "Default AI model id")
	fs.BoolVar(&f.Review, "review", false, "Review AI edits hunk by hunk before applying them")
}

// ApplyOverrides updates cfg with the flags that were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.set == nil {
		return
	}
	f.set.Visit(func(fl *pflag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value)
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = f.LogFilePath
		case "tabwidth":
			if f.TabWidth > 0 {
				cfg.TabWidth = f.TabWidth
			}
		case "theme":
			cfg.Theme = f.Theme
		case "system-clipboard":
			cfg.SystemClipboard = f.SystemClipboard
		case "insert":
			cfg.Overwrite = !f.Insert
		case "model":
			cfg.AI.DefaultModel = f.Model
		case "review":
			cfg.AI.ReviewEdits = f.Review
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(f.DisablePkgs)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
