package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"pss/internal"
	"pss/internal/output"
)

const version = "0.3.0"

func main() {
	types := internal.DefaultTypeMap()
	fileCfg := loadDefaultConfig(types)

	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "Print the version"}
	app := &cli.App{
		Name:                   "pss",
		Usage:                  "Search for a pattern in source files, recursively",
		UsageText:              "pss [options] <pattern> [files]",
		Version:                version,
		UseShortOptionHandling: true,
		Flags:                  buildFlags(types),
		Action: func(c *cli.Context) error {
			internal.InitLogger(c.String("logfile"), c.String("log-level"))

			if c.Bool("help-types") {
				printTypes(types)
				return nil
			}

			cfg := fileCfg
			if p := c.String("config"); p != "" {
				fc, err := internal.LoadFileConfig(p)
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				types.Merge(fc.Types)
				cfg = fc
			}

			opts, err := buildOptions(c, types, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if opts == nil {
				return cli.ShowAppHelp(c)
			}

			// ctx with timeout + OS signals
			base := context.Background()
			var cancel context.CancelFunc
			if t := c.Duration("timeout"); t > 0 {
				base, cancel = context.WithTimeout(base, t)
			} else {
				base, cancel = context.WithCancel(base)
			}
			defer cancel()
			ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			searcher, err := internal.NewSearcher(*opts)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			colors := output.IsTerminal(os.Stdout)
			if c.IsSet("color") {
				colors = c.Bool("color")
			}
			if c.Bool("nocolor") {
				colors = false
			}
			out := output.New(os.Stdout, output.Options{
				Colors:         colors,
				PrefixFilename: c.Bool("with-filename") && !c.Bool("no-filename"),
				ShowColumn:     c.Bool("column"),
			})
			defer out.Flush()

			if err := searcher.Run(ctx, out); err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					logrus.Warn("Search cancelled")
				} else {
					logrus.WithError(err).Error("Search failed")
				}
			}
			return nil
		},
	}

	if err := app.Run(withEnvOptions(os.Args)); err != nil {
		logrus.Fatal(err)
	}
}

// withEnvOptions inserts the shell-split $PSS_OPTIONS right after the program name.
func withEnvOptions(args []string) []string {
	env := os.Getenv("PSS_OPTIONS")
	if env == "" || len(args) == 0 {
		return args
	}
	extra, err := shlex.Split(env)
	if err != nil {
		logrus.WithError(err).Warn("Ignoring malformed PSS_OPTIONS")
		return args
	}
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[0])
	out = append(out, extra...)
	return append(out, args[1:]...)
}

// loadDefaultConfig merges the implicit config file into types, so its
// types also get --<type> flags.
func loadDefaultConfig(types internal.TypeMap) *internal.FileConfig {
	p := internal.DefaultConfigPath()
	if p == "" {
		return nil
	}
	fc, err := internal.LoadFileConfig(p)
	if err != nil {
		logrus.WithError(err).Warnf("Ignoring config file %s", p)
		return nil
	}
	types.Merge(fc.Types)
	return fc
}

func printTypes(types internal.TypeMap) {
	for _, name := range types.Names() {
		fmt.Printf("    --[no]%-16s %v\n", name, types[name])
	}
}
