package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchOptions_Validate(t *testing.T) {
	o := SearchOptions{}
	if err := o.Validate(); err == nil {
		t.Fatal("expected error when pattern empty")
	}
	o.OnlyFindFiles = true
	if err := o.Validate(); err != nil {
		t.Fatalf("only-find-files needs no pattern: %v", err)
	}
	o = SearchOptions{Pattern: "x", MaxCount: -1}
	assert.ErrorIs(t, o.Validate(), ErrInvalidOptions)
}

func TestSearchOptions_Prepare(t *testing.T) {
	o := SearchOptions{Pattern: "x"}
	o.Prepare()
	assert.Equal(t, []string{"."}, o.Roots)
	assert.Equal(t, 1, o.Threads)
	assert.NotEmpty(t, o.Types)
}

func prepared(o SearchOptions) SearchOptions {
	o.Prepare()
	return o
}

func TestFinderConfig_Defaults(t *testing.T) {
	o := prepared(SearchOptions{Pattern: "x", Recurse: true})
	cfg, err := o.FinderConfig()
	require.NoError(t, err)

	assert.Contains(t, cfg.IgnoreDirs, ".git")
	assert.Contains(t, cfg.SearchExtensions, ".py")
	assert.Contains(t, cfg.SearchExtensions, ".xml")
	assert.Empty(t, cfg.IgnoreExtensions)
	assert.Len(t, cfg.IgnorePatterns, len(DefaultIgnoredFilePatterns))
	assert.True(t, cfg.Recurse)
}

func TestFinderConfig_IgnoreDirArithmetic(t *testing.T) {
	o := prepared(SearchOptions{
		Pattern:           "x",
		AddIgnoredDirs:    []string{"node_modules"},
		RemoveIgnoredDirs: []string{".git"},
	})
	cfg, err := o.FinderConfig()
	require.NoError(t, err)
	assert.Contains(t, cfg.IgnoreDirs, "node_modules")
	assert.NotContains(t, cfg.IgnoreDirs, ".git")
	assert.Contains(t, cfg.IgnoreDirs, ".svn")

	o.Unrestricted = true
	cfg, err = o.FinderConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.IgnoreDirs)
	assert.Empty(t, cfg.SearchExtensions, "unrestricted searches every extension")
	assert.Empty(t, cfg.IgnorePatterns)
}

func TestFinderConfig_Types(t *testing.T) {
	o := prepared(SearchOptions{Pattern: "x", IncludeTypes: []string{"python", "perl"}, ExcludeTypes: []string{"xml"}})
	cfg, err := o.FinderConfig()
	require.NoError(t, err)
	assert.Equal(t, toSet([]string{".py", ".pl", ".pm", ".pod", ".t"}), cfg.SearchExtensions)
	assert.Equal(t, toSet([]string{".xml", ".dtd", ".xslt", ".ent"}), cfg.IgnoreExtensions)

	o = prepared(SearchOptions{Pattern: "x", SearchAllTypes: true})
	cfg, err = o.FinderConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.SearchExtensions)
	assert.Contains(t, cfg.IgnoreDirs, ".git", "-a keeps directory ignores")
}

func TestFinderConfig_UnknownType(t *testing.T) {
	o := prepared(SearchOptions{Pattern: "x", IncludeTypes: []string{"cobol"}})
	_, err := o.FinderConfig()
	assert.ErrorIs(t, err, ErrUnknownType)

	o = prepared(SearchOptions{Pattern: "x", ExcludeTypes: []string{"fortran"}})
	_, err = o.FinderConfig()
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestFinderConfig_TypePattern(t *testing.T) {
	o := prepared(SearchOptions{Pattern: "x", TypePattern: `_test\.go$`, IncludeTypes: []string{"python"}})
	cfg, err := o.FinderConfig()
	require.NoError(t, err)
	require.Len(t, cfg.SearchPatterns, 1)
	assert.True(t, cfg.SearchPatterns[0].MatchString("x_test.go"))
	assert.Empty(t, cfg.SearchExtensions, "-G overrides type selection")
	assert.Empty(t, cfg.IgnorePatterns)

	o.TypePattern = "("
	_, err = o.FinderConfig()
	assert.ErrorIs(t, err, ErrMalformedPattern)
}

func TestTypeMap_MergeAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pss.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
types:
  proto: [proto, .PROTO3]
  python: [.py, .pyw]
ignore_dirs: [node_modules]
ignore_file_patterns: ['\.min\.js$']
`), 0644))

	fc, err := LoadFileConfig(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules"}, fc.IgnoreDirs)

	types := DefaultTypeMap()
	types.Merge(fc.Types)
	assert.Equal(t, []string{".proto", ".proto3"}, types["proto"])
	assert.Equal(t, []string{".py", ".pyw"}, types["python"])
	assert.Contains(t, types.KnownExtensions(), ".pyw")

	o := prepared(SearchOptions{Pattern: "x", Types: types, IncludeTypes: []string{"proto"}, ExtraIgnoredFiles: fc.IgnoreFilePatterns})
	cfg, err := o.FinderConfig()
	require.NoError(t, err)
	assert.Contains(t, cfg.SearchExtensions, ".proto3")
	assert.Len(t, cfg.IgnorePatterns, len(DefaultIgnoredFilePatterns)+1)
}

func TestLoadFileConfig_Errors(t *testing.T) {
	_, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("types: [unclosed"), 0644))
	_, err = LoadFileConfig(p)
	assert.Error(t, err)
}

func TestDefaultConfigPath_Env(t *testing.T) {
	t.Setenv("PSS_CONFIG", "/etc/pss.yaml")
	assert.Equal(t, "/etc/pss.yaml", DefaultConfigPath())
}
