package ai

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"

	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/storage"
)

const (
	// DefaultSystemPrompt is used for edit requests with a literal prompt.
	DefaultSystemPrompt = "Modify the following text according to the user's request. Return only the modified text, no explanations or additional content."
	// AskSystemPrompt is used for ask requests with a literal prompt.
	AskSystemPrompt = "Answer the user's question about the following text. Be concise and do not rewrite the text."

	// TextPlaceholder marks where a prompt file wants the target text.
	TextPlaceholder = "{{TEXT}}"

	promptExt = ".prompt"
)

// Template is a parsed prompt file.
type Template struct {
	System string
	User   string
}

// ParseTemplate reads the [system] and [user] sections of a prompt file.
// Lines before the first section header are ignored. A missing or empty
// [system] section is an error.
func ParseTemplate(data []byte) (Template, error) {
	var t Template
	var section *[]string
	var sys, user []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch strings.TrimSpace(line) {
		case "[system]":
			section = &sys
			continue
		case "[user]":
			section = &user
			continue
		}
		if section != nil {
			*section = append(*section, line)
		}
	}
	if err := sc.Err(); err != nil {
		return t, err
	}

	t.System = strings.TrimSpace(strings.Join(sys, "\n"))
	t.User = strings.TrimSpace(strings.Join(user, "\n"))
	if t.System == "" {
		return t, fmt.Errorf("no [system] section found in prompt file")
	}
	return t, nil
}

// Render fills the template with the target text. Templates without the
// placeholder get the text appended.
func (t Template) Render(text string) (system, user string) {
	switch {
	case strings.Contains(t.User, TextPlaceholder):
		return t.System, strings.ReplaceAll(t.User, TextPlaceholder, text)
	case t.User == "":
		return t.System, text
	}
	return t.System, t.User + "\n\nText:\n" + text
}

// UserMessage frames a literal request together with the target text.
func UserMessage(request, text string) string {
	if text == "" {
		return request
	}
	return fmt.Sprintf("User request: %s\n\nText:\n%s", request, text)
}

// ValidPromptName reports whether name can be used as a prompt file name.
func ValidPromptName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// PromptStore resolves named prompts. Implementations must be safe for
// concurrent use; workers call Load.
type PromptStore interface {
	Load(name string) (Template, error)
}

// FilePromptStore loads <dir>/<name>.prompt files and caches the parsed
// templates until the file changes.
type FilePromptStore struct {
	store   *storage.FileStore
	dir     string
	cache   *gocache.Cache
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFilePromptStore creates a store reading from dir.
func NewFilePromptStore(store *storage.FileStore, dir string) *FilePromptStore {
	return &FilePromptStore{
		store: store,
		dir:   dir,
		cache: gocache.New(30*time.Minute, time.Hour),
	}
}

// Path returns the file a prompt name maps to.
func (s *FilePromptStore) Path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

// Load returns the template for name, reading it on a cache miss.
func (s *FilePromptStore) Load(name string) (Template, error) {
	if !ValidPromptName(name) {
		return Template{}, errs.Invalid("bad prompt name %q", name)
	}
	if v, ok := s.cache.Get(name); ok {
		if t, ok := v.(Template); ok {
			return t, nil
		}
	}

	path := s.Path(name)
	data, exists, err := s.store.Read(path)
	if err != nil {
		return Template{}, errs.AIFailure(err.Error())
	}
	if !exists {
		return Template{}, errs.AIFailure(fmt.Sprintf("prompt file %s not found", path))
	}
	t, err := ParseTemplate(data)
	if err != nil {
		return Template{}, errs.AIFailure(fmt.Sprintf("%s: %v", path, err))
	}
	s.cache.SetDefault(name, t)
	logger.DebugTagf("ai", "loaded prompt %s", path)
	return t, nil
}

// Invalidate drops the cached template for name.
func (s *FilePromptStore) Invalidate(name string) {
	s.cache.Delete(name)
}

// Watch drops cached templates when their files change on disk. It only
// makes sense for stores backed by the OS filesystem.
func (s *FilePromptStore) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating prompt watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("watching prompt directory %s: %w", s.dir, err)
	}
	s.watcher = w
	s.done = make(chan struct{})
	go s.loop()
	return nil
}

func (s *FilePromptStore) loop() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != promptExt {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(ev.Name), promptExt)
			s.Invalidate(name)
			logger.DebugTagf("ai", "prompt %s changed (%s)", name, ev.Op)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.WarnTagf("ai", "prompt watcher: %v", err)
		case <-s.done:
			return
		}
	}
}

// Close stops the watcher, if running.
func (s *FilePromptStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
