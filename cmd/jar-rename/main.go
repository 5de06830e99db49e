// Package main provides the jar-rename CLI, which moves a Java package to a
// new name inside a compiled JAR:
//
//	jar-rename -s com.old -t com.new [-o ./target/] app.jar
//
// Entry paths under the source package are renamed, and every class file in
// the archive has the package rewritten in its constant pool. The result is
// written to <output>/<jar file name>; the input is never modified.
//
// Exit status follows sysexits(3): 64 for usage errors, 65 when a class
// file cannot be parsed, 74 for archive I/O failures.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"jar-rename/internal/diff"
	"jar-rename/internal/errdefs"
	"jar-rename/internal/logging"
	"jar-rename/internal/pattern"
	"jar-rename/internal/transcode"
)

var versionGitCommit = "unknown"
var versionBuildTime = "unknown"

const defaultOutputDir = "./target/"

// Config is the resolved command line.
type Config struct {
	jarFile string
	output  string
	pattern pattern.Pattern
	jobs    int
	diff    bool
	dryRun  bool
	deflate bool
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "jar-rename",
		Usage:     "Rename a Java package inside a compiled JAR",
		ArgsUsage: "<jarfile>",
		Version:   fmt.Sprintf("%s.%s", versionGitCommit, versionBuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "Source package name, e.g. com.old", EnvVars: []string{"SOURCE"}},
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Usage: "Target package name, e.g. com.new", EnvVars: []string{"TARGET"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: defaultOutputDir, Usage: "Directory to store the generated JAR", EnvVars: []string{"OUTPUT"}},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: 1, Usage: "Number of class files rewritten in parallel", EnvVars: []string{"JOBS"}},
			&cli.BoolFlag{Name: "diff", Usage: "Print a unified diff of every renamed entry and rewritten constant"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Rewrite in memory and report, without writing the output JAR"},
			&cli.BoolFlag{Name: "deflate", Usage: "Compress every entry with deflate instead of keeping each entry's method"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"LOG_LEVEL"}},
			&cli.BoolFlag{Name: "log-json", Usage: "Log in JSON format", EnvVars: []string{"LOG_JSON"}},
		},
		Before: func(c *cli.Context) error {
			if err := logging.SetUp(c.String("log-level"), c.Bool("log-json"), c.App.ErrWriter); err != nil {
				return errdefs.Usagef("invalid --log-level: %v", err)
			}
			return nil
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return errdefs.Usagef("%v", err)
		},
		Action: run,
	}
}

// parseConfig validates the command line. Every failure is a usage error.
func parseConfig(c *cli.Context) (Config, error) {
	if c.NArg() != 1 {
		return Config{}, errdefs.Usagef("expected exactly one <jarfile>, got %d", c.NArg())
	}
	jarFile := c.Args().First()
	if !strings.HasSuffix(jarFile, ".jar") {
		return Config{}, errdefs.Usagef("'%s' is not a valid JAR file", jarFile)
	}
	if c.String("target") == "" {
		return Config{}, errdefs.Usagef("target package (-t) is required")
	}
	p, err := pattern.New(c.String("source"), c.String("target"))
	if err != nil {
		return Config{}, err
	}
	jobs := c.Int("jobs")
	if jobs < 1 {
		return Config{}, errdefs.Usagef("--jobs must be at least 1, got %d", jobs)
	}
	output := c.String("output")
	if output == "" {
		output = defaultOutputDir
	}
	return Config{
		jarFile: jarFile,
		output:  output,
		pattern: p,
		jobs:    jobs,
		diff:    c.Bool("diff"),
		dryRun:  c.Bool("dry-run"),
		deflate: c.Bool("deflate"),
	}, nil
}

func run(c *cli.Context) error {
	if c.NArg() == 0 && c.NumFlags() == 0 {
		_ = cli.ShowAppHelp(c)
		return errdefs.Usagef("missing <jarfile>")
	}

	logrus.Info("checking files ...")
	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{
		"jar":     cfg.jarFile,
		"pattern": cfg.pattern.String(),
	})
	sum, err := transcode.Transcode(c.Context, cfg.jarFile, cfg.output, cfg.pattern, transcode.Options{
		Jobs:         cfg.jobs,
		ForceDeflate: cfg.deflate,
		DryRun:       cfg.dryRun,
		Report:       cfg.diff,
		Log:          log,
	})
	if err != nil {
		return err
	}

	if cfg.diff {
		if err := printDiff(c.App.Writer, sum.Reports); err != nil {
			return errdefs.IO(err, "failed to print diff")
		}
	}

	log.WithFields(logrus.Fields{
		"output":      sum.Output,
		"digest":      sum.Digest.String(),
		"entries":     sum.Entries,
		"classes":     sum.Classes,
		"passthrough": sum.Passthrough,
		"renamed":     sum.Renamed,
		"rewritten":   sum.Rewritten,
		"constants":   sum.Constants,
		"jdk":         sum.Versions.JDK(),
	}).Info("JAR upgrade success")
	return nil
}

func printDiff(w io.Writer, reports []transcode.Report) error {
	patches := make([]string, 0, len(reports))
	for _, r := range reports {
		body, _ := diff.Entry(r.Name, r.NewName, r.Changes, diff.Options{})
		patches = append(patches, body)
	}
	_, err := io.WriteString(w, diff.Join(patches))
	return err
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logrus.Error(err)
		os.Exit(errdefs.ExitCode(err))
	}
}
