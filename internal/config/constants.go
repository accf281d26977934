package config

import "time"

// Base application details
const AppName = "vedit"
const ConfigDirName = "vedit"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml"
const LegacyConfigFileName = ".vedit.toml" // read from $HOME when no other file exists
const DefaultLogFileName = "vedit.log"
const DefaultPromptDir = "prompts"

// UI Layout
const StatusBarHeight = 1
const CommandLineHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

const DefaultTabWidth = 4
const DefaultScrollOff = 3
const DefaultTheme = "devcomfort-dark"
const DefaultHistoryLimit = 1000
const DefaultCommandHistoryLimit = 100

// AI defaults
const DefaultAITimeout = 60 * time.Second
const DefaultAIMaxConcurrent = 4
const DefaultAIMaxTokens = 2048

// LineNumberSide values.
const (
	LineNumbersLeft  = "left"
	LineNumbersRight = "right"
)
