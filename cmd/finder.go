package main

import (
	"github.com/urfave/cli/v2"

	"pss/internal"
)

func buildFlags(types internal.TypeMap) []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{Name: "help-types", Usage: "Display supported file types"},

		// searching
		&cli.BoolFlag{Name: "ignore-case", Aliases: []string{"i"}, Usage: "Ignore case distinctions in the pattern"},
		&cli.BoolFlag{Name: "smart-case", Usage: "Ignore case only if the pattern has no upper case. Ignored if -i is given"},
		&cli.BoolFlag{Name: "invert-match", Aliases: []string{"v"}, Usage: "Invert match: show non-matching lines"},
		&cli.BoolFlag{Name: "word-regexp", Aliases: []string{"w"}, Usage: "Force the pattern to match only whole words"},
		&cli.BoolFlag{Name: "literal", Aliases: []string{"Q"}, Usage: "Quote all metacharacters; the pattern is literal"},

		// output
		&cli.StringFlag{Name: "match", Usage: "Specify the search `PATTERN` explicitly"},
		&cli.IntFlag{Name: "max-count", Aliases: []string{"m"}, Usage: "Stop searching in each file after `NUM` matches (0 - unlimited)"},
		&cli.BoolFlag{Name: "with-filename", Aliases: []string{"H"}, Value: true, Usage: "Print the filename before matches"},
		&cli.BoolFlag{Name: "no-filename", Usage: "Suppress printing the filename before matches"},
		&cli.BoolFlag{Name: "column", Usage: "Show the column number of the first match"},
		&cli.BoolFlag{Name: "color", Usage: "Highlight the matching text (default when stdout is a terminal)"},
		&cli.BoolFlag{Name: "nocolor", Usage: "Do not highlight the matching text"},

		// file finding
		&cli.BoolFlag{Name: "f", Usage: "Only print the files found. The pattern must not be specified"},
		&cli.StringFlag{Name: "g", Usage: "Same as -f, but only print files matching `REGEX`"},

		// inclusion / exclusion
		&cli.BoolFlag{Name: "all-types", Aliases: []string{"a"}, Usage: "All file types are searched"},
		&cli.BoolFlag{Name: "unrestricted", Aliases: []string{"u"}, Usage: "All files are searched, including those in ignored directories"},
		&cli.StringSliceFlag{Name: "ignore-dir", Usage: "Add directory `name` to the list of ignored dirs"},
		&cli.StringSliceFlag{Name: "noignore-dir", Usage: "Remove directory `name` from the list of ignored dirs"},
		&cli.BoolFlag{Name: "recurse", Aliases: []string{"r", "R"}, Value: true, Usage: "Recurse into subdirectories"},
		&cli.BoolFlag{Name: "no-recurse", Aliases: []string{"n"}, Usage: "Do not recurse into subdirectories"},
		&cli.StringFlag{Name: "G", Usage: "Only search files whose name matches `REGEX`"},
		&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Search files of type `NAME` (same as --NAME)"},
		&cli.StringSliceFlag{Name: "notype", Aliases: []string{"T"}, Usage: "Skip files of type `NAME` (same as --noNAME)"},

		// operational
		&cli.IntFlag{Name: "depth", Usage: "Max directory depth (0 - unlimited)"},
		&cli.BoolFlag{Name: "archives", Usage: "Also search inside archives (.zip,.tar,.gz,.7z,...)"},
		&cli.IntFlag{Name: "threads", Value: 1, Usage: "Files matched concurrently; output order is preserved"},
		&cli.DurationFlag{Name: "timeout", Usage: "Global timeout for the search (e.g. 10s, 1m)"},
		&cli.StringFlag{Name: "config", Usage: "YAML config `FILE` with extra types and ignores"},
		&cli.StringFlag{Name: "logfile", Usage: "Write logs into file instead of stderr"},
		&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "Log level: debug, info, warn, error"},
	}

	for _, name := range types.Names() {
		flags = append(flags,
			&cli.BoolFlag{Name: name, Hidden: true},
			&cli.BoolFlag{Name: "no" + name, Hidden: true},
		)
	}
	return flags
}

// buildOptions maps parsed flags to search options. A nil result with no
// error means there is nothing to search and help should be shown.
func buildOptions(c *cli.Context, types internal.TypeMap, fc *internal.FileConfig) (*internal.SearchOptions, error) {
	args := c.Args().Slice()

	onlyFind := c.Bool("f")
	typePattern := c.String("G")
	if g := c.String("g"); g != "" {
		onlyFind = true
		typePattern = g
	}

	var pattern string
	var roots []string
	switch {
	case onlyFind:
		roots = args
	case c.String("match") != "":
		pattern = c.String("match")
		roots = args
	case len(args) == 0:
		return nil, nil
	default:
		pattern = args[0]
		roots = args[1:]
	}

	include := append([]string{}, c.StringSlice("type")...)
	exclude := append([]string{}, c.StringSlice("notype")...)
	for _, name := range types.Names() {
		if c.Bool(name) {
			include = append(include, name)
		}
		if c.Bool("no" + name) {
			exclude = append(exclude, name)
		}
	}

	opts := &internal.SearchOptions{
		Roots:             roots,
		Pattern:           pattern,
		OnlyFindFiles:     onlyFind,
		SearchAllTypes:    c.Bool("all-types"),
		Unrestricted:      c.Bool("unrestricted"),
		AddIgnoredDirs:    c.StringSlice("ignore-dir"),
		RemoveIgnoredDirs: c.StringSlice("noignore-dir"),
		Recurse:           c.Bool("recurse") && !c.Bool("no-recurse"),
		Depth:             c.Int("depth"),
		TypePattern:       typePattern,
		IncludeTypes:      include,
		ExcludeTypes:      exclude,
		IgnoreCase:        c.Bool("ignore-case"),
		SmartCase:         c.Bool("smart-case"),
		InvertMatch:       c.Bool("invert-match"),
		WholeWords:        c.Bool("word-regexp"),
		Literal:           c.Bool("literal"),
		MaxCount:          c.Int("max-count"),
		Archives:          c.Bool("archives"),
		Threads:           c.Int("threads"),
		Types:             types,
	}
	if fc != nil {
		opts.AddIgnoredDirs = append(append([]string{}, fc.IgnoreDirs...), opts.AddIgnoredDirs...)
		opts.ExtraIgnoredFiles = fc.IgnoreFilePatterns
	}
	return opts, nil
}
