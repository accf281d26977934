// internal/highlighter/language.go
package highlighter

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"

	"github.com/bethropolis/vedit/internal/logger"
)

//go:embed queries/*/highlights.scm
var embeddedQueries embed.FS

// Language is a grammar plus its highlight query.
type Language struct {
	Name    string
	Grammar *sitter.Language

	once     sync.Once
	query    *sitter.Query
	queryErr error
}

// Query compiles the language's highlight query on first use.
func (l *Language) Query() (*sitter.Query, error) {
	l.once.Do(func() {
		src, err := embeddedQueries.ReadFile(fmt.Sprintf("queries/%s/highlights.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("no highlight query for %s: %w", l.Name, err)
			return
		}
		l.query, l.queryErr = sitter.NewQuery(src, l.Grammar)
		if l.queryErr != nil {
			logger.Warnf("Failed to compile highlight query for %s: %v", l.Name, l.queryErr)
		}
	})
	return l.query, l.queryErr
}

var languages = map[string]*Language{
	"go":         {Name: "go", Grammar: gosrc.GetLanguage()},
	"python":     {Name: "python", Grammar: pythonsrc.GetLanguage()},
	"javascript": {Name: "javascript", Grammar: jssrc.GetLanguage()},
	"rust":       {Name: "rust", Grammar: rustsrc.GetLanguage()},
}

// DefaultSyntaxMap maps file extensions, without the dot, to language
// names. Entries from the [syntax_map] config section are layered on top.
var DefaultSyntaxMap = map[string]string{
	"go":   "go",
	"py":   "python",
	"pyw":  "python",
	"js":   "javascript",
	"mjs":  "javascript",
	"cjs":  "javascript",
	"json": "javascript",
	"rs":   "rust",
}

// Names lists the supported languages.
func Names() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	return names
}

// Detector picks a language for a file by its extension.
type Detector struct {
	syntaxMap map[string]string
}

// NewDetector merges overrides over DefaultSyntaxMap. Keys may be written
// with or without a leading dot; names are matched case-insensitively.
// Mapping to an unknown language disables highlighting for the extension.
func NewDetector(overrides map[string]string) *Detector {
	m := make(map[string]string, len(DefaultSyntaxMap)+len(overrides))
	for ext, name := range DefaultSyntaxMap {
		m[ext] = name
	}
	for ext, name := range overrides {
		ext = strings.TrimPrefix(strings.ToLower(ext), ".")
		name = strings.ToLower(name)
		if _, ok := languages[name]; !ok {
			logger.Warnf("syntax_map: unknown language %q for .%s", name, ext)
		}
		m[ext] = name
	}
	return &Detector{syntaxMap: m}
}

// ForFile returns the language for path, or nil.
func (d *Detector) ForFile(path string) *Language {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil
	}
	return languages[d.syntaxMap[ext]]
}
