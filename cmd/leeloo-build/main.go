// Command leeloo-build compiles the native leeloo module and assembles the
// Python package directory around it.
//
// With no arguments it runs the CMake build of the current directory and
// writes the package to tmp/pyleeloo:
//
//	leeloo-build --python-version 3.12 --package-dir tmp
//
// Settings can be read from a YAML file with --config; flags given on the
// command line override the file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/contriboss/leeloo-go"
	"github.com/contriboss/leeloo-go/extbuild"
)

const defaultPackageDir = "tmp"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		log.WithError(err).Error("leeloo-build failed")
		stop()
		os.Exit(1)
	}
}

type options struct {
	config        string
	file          string
	sourceDir     string
	buildDir      string
	packageDir    string
	packageName   string
	moduleName    string
	pythonVersion string
	buildArgs     []string
	parallel      int
	clean         bool
	verbose       bool
	smoke         bool
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}

	app := kingpin.New("leeloo-build", "Build the native leeloo module and its Python package directory.")
	app.HelpFlag.Short('h')
	app.Flag("config", "YAML build configuration").Short('c').StringVar(&opts.config)
	app.Flag("source", "source directory").Short('s').StringVar(&opts.sourceDir)
	app.Flag("build-dir", "scratch directory of out-of-source builds").StringVar(&opts.buildDir)
	app.Flag("package-dir", "directory receiving the package (default \"tmp\")").Short('o').StringVar(&opts.packageDir)
	app.Flag("package-name", "name of the package directory").StringVar(&opts.packageName)
	app.Flag("module-name", "name of the module file without .so").StringVar(&opts.moduleName)
	app.Flag("python-version", "major.minor Python version, detected when empty").StringVar(&opts.pythonVersion)
	app.Flag("build-arg", "extra argument for the build tool, repeatable (--build-arg=-DFOO=1)").Short('D').StringsVar(&opts.buildArgs)
	app.Flag("jobs", "parallel jobs of the build tool, 0 lets it decide").Short('j').IntVar(&opts.parallel)
	app.Flag("clean", "clean before building").BoolVar(&opts.clean)
	app.Flag("verbose", "log every command and its output").Short('v').BoolVar(&opts.verbose)
	app.Flag("smoke", "run the interval list smoke test after packaging").BoolVar(&opts.smoke)
	app.Arg("file", "build file, relative to the source directory").Default("CMakeLists.txt").StringVar(&opts.file)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// buildConfig loads opts.config when set and applies the flags given on
// the command line over it.
func buildConfig(opts *options) (*extbuild.BuildConfig, error) {
	cfg := &extbuild.BuildConfig{}
	if opts.config != "" {
		var err error
		if cfg, err = extbuild.LoadConfigFile(opts.config); err != nil {
			return nil, err
		}
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.SourceDir, opts.sourceDir)
	override(&cfg.BuildDir, opts.buildDir)
	override(&cfg.PackageDir, opts.packageDir)
	override(&cfg.PackageName, opts.packageName)
	override(&cfg.ModuleName, opts.moduleName)
	override(&cfg.PythonVersion, opts.pythonVersion)

	if len(opts.buildArgs) > 0 {
		cfg.BuildArgs = opts.buildArgs
	}
	if opts.parallel > 0 {
		cfg.Parallel = opts.parallel
	}
	cfg.CleanFirst = cfg.CleanFirst || opts.clean
	cfg.Verbose = cfg.Verbose || opts.verbose

	if cfg.SourceDir == "" {
		cfg.SourceDir = "."
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = defaultPackageDir
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log *logrus.Logger) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	cfg.Logger = log

	pkgDir, result, err := extbuild.NewBuilderFactory().BuildPackage(ctx, cfg, opts.file)
	if err != nil {
		if result != nil && len(result.MissingDependencies) > 0 {
			log.Errorf("install the missing tools: %s", strings.Join(result.MissingDependencies, ", "))
		}
		return err
	}

	for _, line := range result.Output {
		log.Debug(line)
	}
	logModules(log, result.Modules)
	fmt.Fprintln(stdout, pkgDir)

	if opts.smoke {
		return smoke(stdout)
	}
	return nil
}

func logModules(log logrus.FieldLogger, modules []string) {
	for _, m := range modules {
		fi, err := os.Stat(m)
		if err != nil {
			log.WithError(err).Warnf("cannot stat %s", m)
			continue
		}
		log.WithFields(logrus.Fields{
			"module": filepath.Base(m),
			"size":   humanize.Bytes(uint64(fi.Size())),
		}).Info("built module")
	}
}

// smoke builds [4, 11] and [20, 40], aggregates them and prints ten random
// subsets of the result, one per line, each value followed by a comma.
func smoke(w io.Writer) error {
	i1 := leeloo.NewIntervalU32()
	i1.Assign(4, 11)
	i2 := leeloo.NewIntervalU32()
	i2.Assign(20, 40)

	l := leeloo.NewIntervalListU32()
	l.Add(i1)
	l.Add(i2)
	l.Aggregate()

	var werr error
	l.RandomSets(10, func(set []uint32) {
		var b strings.Builder
		for _, v := range set {
			fmt.Fprintf(&b, "%d,", v)
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil && werr == nil {
			werr = errors.Wrap(err, "failed to write smoke test output")
		}
	})
	return werr
}
