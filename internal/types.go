package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownType      = errors.New("unknown file type")
	ErrMalformedPattern = errors.New("malformed pattern")
	ErrUnreadableFile   = errors.New("unreadable file")
	ErrInvalidOptions   = errors.New("invalid options")
)

// TypeMap maps a logical type name to its dotted, lowercase extensions.
type TypeMap map[string][]string

// DefaultTypeMap returns a fresh copy of the built-in type table.
func DefaultTypeMap() TypeMap {
	return TypeMap{
		"actionscript": {".as", ".mxml"},
		"cc":           {".c", ".h", ".xs"},
		"cpp":          {".cpp", ".cc", ".cxx", ".m", ".hpp", ".hh", ".h", ".hxx"},
		"csharp":       {".cs"},
		"css":          {".css", ".less", ".scss"},
		"go":           {".go"},
		"haskell":      {".hs", ".lhs"},
		"html":         {".htm", ".html", ".shtml", ".xhtml"},
		"java":         {".java", ".properties"},
		"js":           {".js", ".mjs", ".jsx", ".ts", ".tsx"},
		"json":         {".json"},
		"lisp":         {".lisp", ".lsp", ".el"},
		"lua":          {".lua"},
		"make":         {".mk", ".mak"},
		"markdown":     {".md", ".markdown"},
		"ocaml":        {".ml", ".mli"},
		"perl":         {".pl", ".pm", ".pod", ".t"},
		"php":          {".php", ".phpt", ".php3", ".php4", ".php5"},
		"python":       {".py"},
		"ruby":         {".rb", ".rhtml", ".rjs", ".rxml", ".erb", ".rake"},
		"rust":         {".rs"},
		"scala":        {".scala"},
		"scheme":       {".scm", ".ss"},
		"shell":        {".sh", ".bash", ".csh", ".tcsh", ".ksh", ".zsh"},
		"sql":          {".sql", ".ctl"},
		"tcl":          {".tcl", ".itcl", ".itk"},
		"tex":          {".tex", ".cls", ".sty"},
		"vim":          {".vim"},
		"xml":          {".xml", ".dtd", ".xslt", ".ent"},
		"yaml":         {".yaml", ".yml"},
	}
}

// DefaultIgnoredDirs are directory names pruned unless the run is unrestricted.
var DefaultIgnoredDirs = []string{
	"autom4te.cache", "blib", "_build", ".bzr", ".cdv", "cover_db",
	"CVS", "_darcs", "~.dep", "~.dot", ".git", ".hg", "~.nib",
	".pc", "~.plst", "RCS", "SCCS", "_sgbak", ".svn",
}

// DefaultIgnoredFilePatterns skip editor backups, swap files and core dumps.
var DefaultIgnoredFilePatterns = []string{`~$`, `#.+#$`, `[._].*\.swp$`, `core\.\d+$`}

// Names returns the type names in sorted order.
func (m TypeMap) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the union of extensions for the given types.
func (m TypeMap) Extensions(types ...string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, t := range types {
		exts, ok := m[t]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		for _, e := range exts {
			out[e] = struct{}{}
		}
	}
	return out, nil
}

// KnownExtensions is the union of every extension in the table.
func (m TypeMap) KnownExtensions() map[string]struct{} {
	out, _ := m.Extensions(m.Names()...)
	return out
}

// FileConfig is the optional YAML configuration file.
//
//	types:
//	  proto: [.proto]
//	ignore_dirs: [node_modules, vendor]
//	ignore_file_patterns: ['\.min\.js$']
type FileConfig struct {
	Types              map[string][]string `yaml:"types"`
	IgnoreDirs         []string            `yaml:"ignore_dirs"`
	IgnoreFilePatterns []string            `yaml:"ignore_file_patterns"`
}

// LoadFileConfig reads a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// DefaultConfigPath returns $PSS_CONFIG or ~/.pss.yaml when that file exists.
func DefaultConfigPath() string {
	if p := os.Getenv("PSS_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".pss.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Merge adds (or replaces) config file types in m.
func (m TypeMap) Merge(types map[string][]string) {
	for name, exts := range types {
		norm := make([]string, 0, len(exts))
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			norm = append(norm, e)
		}
		m[name] = norm
	}
}
