package internal

import (
	"fmt"
	"regexp"
	"runtime"
)

// SearchOptions - public options from CLI.
type SearchOptions struct {
	Roots   []string
	Pattern string

	OnlyFindFiles     bool
	SearchAllTypes    bool // -a
	Unrestricted      bool // -u
	AddIgnoredDirs    []string
	RemoveIgnoredDirs []string
	Recurse           bool
	Depth             int
	TypePattern       string // -G
	IncludeTypes      []string
	ExcludeTypes      []string
	ExtraIgnoredFiles []string

	IgnoreCase  bool
	SmartCase   bool
	InvertMatch bool
	WholeWords  bool
	Literal     bool
	MaxCount    int

	Archives bool
	Threads  int

	Types TypeMap
}

// Validate checks invariants.
func (o *SearchOptions) Validate() error {
	if !o.OnlyFindFiles && o.Pattern == "" {
		return fmt.Errorf("%w: a pattern is required unless only finding files", ErrInvalidOptions)
	}
	if o.MaxCount < 0 {
		return fmt.Errorf("%w: max count must not be negative", ErrInvalidOptions)
	}
	if o.Depth < 0 {
		return fmt.Errorf("%w: depth must not be negative", ErrInvalidOptions)
	}
	return nil
}

// Prepare fills defaults.
func (o *SearchOptions) Prepare() {
	if len(o.Roots) == 0 {
		o.Roots = []string{"."}
	}
	if o.Types == nil {
		o.Types = DefaultTypeMap()
	}
	if o.Threads <= 0 {
		o.Threads = 1
	}
	if o.Threads > 1 {
		o.Threads = min(o.Threads, runtime.GOMAXPROCS(0)*4)
	}
}

// FinderConfig builds the frozen file selection config.
func (o *SearchOptions) FinderConfig() (FinderConfig, error) {
	cfg := FinderConfig{
		Roots:    o.Roots,
		Recurse:  o.Recurse,
		MaxDepth: o.Depth,
		Archives: o.Archives,
	}

	if o.Unrestricted {
		cfg.IgnoreDirs = map[string]struct{}{}
	} else {
		dirs := toSet(DefaultIgnoredDirs)
		for _, d := range o.AddIgnoredDirs {
			dirs[d] = struct{}{}
		}
		for _, d := range o.RemoveIgnoredDirs {
			delete(dirs, d)
		}
		cfg.IgnoreDirs = dirs
	}

	switch {
	case o.TypePattern != "":
		re, err := regexp.Compile(o.TypePattern)
		if err != nil {
			return FinderConfig{}, fmt.Errorf("%w: file pattern %q: %v", ErrMalformedPattern, o.TypePattern, err)
		}
		cfg.SearchPatterns = []*regexp.Regexp{re}
	case !o.Unrestricted && !o.SearchAllTypes:
		var err error
		if len(o.IncludeTypes) > 0 {
			cfg.SearchExtensions, err = o.Types.Extensions(o.IncludeTypes...)
		} else {
			cfg.SearchExtensions = o.Types.KnownExtensions()
		}
		if err != nil {
			return FinderConfig{}, err
		}
		if cfg.IgnoreExtensions, err = o.Types.Extensions(o.ExcludeTypes...); err != nil {
			return FinderConfig{}, err
		}
		patterns := append(append([]string{}, DefaultIgnoredFilePatterns...), o.ExtraIgnoredFiles...)
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return FinderConfig{}, fmt.Errorf("%w: ignored file pattern %q: %v", ErrMalformedPattern, p, err)
			}
			cfg.IgnorePatterns = append(cfg.IgnorePatterns, re)
		}
	default:
		// empty SearchExtensions: every extension is searched
	}
	return cfg, nil
}

// SearchConfig builds the immutable matching config.
func (o *SearchOptions) SearchConfig() SearchConfig {
	return SearchConfig{
		Pattern:     o.Pattern,
		IgnoreCase:  EffectiveIgnoreCase(o.Pattern, o.IgnoreCase, o.SmartCase),
		InvertMatch: o.InvertMatch,
		WholeWords:  o.WholeWords,
		Literal:     o.Literal,
		MaxCount:    o.MaxCount,
	}
}

func toSet(s []string) map[string]struct{} {
	m := make(map[string]struct{}, len(s))
	for _, x := range s {
		m[x] = struct{}{}
	}
	return m
}
