// internal/theme/manager.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/logger"
)

// Manager holds loaded themes and the active one.
type Manager struct {
	fs          afero.Fs
	dir         string
	themes      map[string]*Theme // keyed by normalized name
	activeTheme *Theme
	mutex       sync.RWMutex
}

// DefaultDir is the user theme directory, or "" if there is no config dir.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warnf("Could not find user config dir: %v. Themes cannot be loaded from default location.", err)
		return ""
	}
	return filepath.Join(dir, config.ConfigDirName, config.ThemesDirName)
}

// normalize makes "DevComfort Dark" and "devcomfort-dark" the same key.
func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// NewManager loads the built-in themes and any theme files in dir, then
// activates initial, falling back to the default theme.
func NewManager(fs afero.Fs, dir, initial string) *Manager {
	m := &Manager{fs: fs, dir: dir, themes: make(map[string]*Theme)}
	for _, t := range Builtin() {
		m.themes[normalize(t.Name)] = t
	}
	if dir != "" {
		if err := m.LoadDir(); err != nil {
			logger.Errorf("Error loading themes from '%s': %v", dir, err)
		}
	}

	m.activeTheme = m.themes[normalize(config.DefaultTheme)]
	if initial != "" {
		if err := m.SetTheme(initial); err != nil {
			logger.Warnf("Theme '%s' not found, using '%s'", initial, m.activeTheme.Name)
		}
	}
	logger.Infof("Initial active theme set to: %s", m.activeTheme.Name)
	return m
}

// LoadDir loads every theme file in the theme directory. Files that fail
// to parse are skipped. A missing directory is not an error.
func (m *Manager) LoadDir() error {
	exists, err := afero.DirExists(m.fs, m.dir)
	if err != nil {
		return err
	}
	if !exists {
		logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", m.dir)
		return nil
	}
	files, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", m.dir, err)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	loaded := 0
	for _, file := range files {
		if file.IsDir() || !IsThemeFile(file.Name()) {
			continue
		}
		path := filepath.Join(m.dir, file.Name())
		t, err := LoadFile(m.fs, path)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", path, err)
			continue
		}
		key := normalize(t.Name)
		if existing, ok := m.themes[key]; ok {
			logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", t.Name, path, existing.Name)
		}
		m.themes[key] = t
		loaded++
	}
	logger.Infof("Loaded %d custom themes.", loaded)
	return nil
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.activeTheme
}

// CurrentName returns the active theme's name.
func (m *Manager) CurrentName() string { return m.Current().Name }

// SetTheme activates the theme called name, ignoring case and treating
// spaces as hyphens.
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	t, ok := m.themes[normalize(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found", name)
	}
	if m.activeTheme != t {
		m.activeTheme = t
		logger.Infof("Active theme set to: %s", t.Name)
	}
	return nil
}

// ThemeNames returns the loaded theme names, sorted.
func (m *Manager) ThemeNames() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.themes))
	for _, t := range m.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
