package extbuild

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Defaults used when the matching BuildConfig field is empty.
const (
	DefaultPackageName = "pyleeloo"
	DefaultBuildDir    = "build"
)

// BuildResult contains the output and status of a build operation.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines captured from the build tools (stdout and stderr)
//   - Modules, the absolute paths of the shared modules that were built
//   - Error information if the build failed
type BuildResult struct {
	Success             bool     // True if build completed successfully
	Output              []string // Lines of output from the build tools
	Modules             []string // Absolute paths to built shared modules
	Error               error    // Error if build failed, nil otherwise
	MissingDependencies []string // Names of build tools that were missing
}

// BuildConfig contains configuration for the build process.
//
// Source paths:
//   - SourceDir: root of the source tree; extension files are relative to it
//   - BuildDir: scratch directory for out-of-source builds, relative to
//     SourceDir unless absolute
//   - PackageDir: where AssemblePackage creates the package directory
//
// Package layout:
//   - PackageName: name of the package directory (default "pyleeloo")
//   - ModuleName: file name of the module without ".so" (default PackageName)
//   - PythonVersion: "major.minor" passed to CMake; detected when empty
//
// Build behavior:
//   - Parallel: make -j value, 0 lets make pick
//   - Jobs: number of extensions built at once by BuildAllExtensions
//   - StopOnFailure: stop after the first failed extension, builds are then
//     sequential
type BuildConfig struct {
	SourceDir  string `yaml:"source_dir"`
	BuildDir   string `yaml:"build_dir,omitempty"`
	PackageDir string `yaml:"package_dir,omitempty"`

	PackageName   string `yaml:"package_name,omitempty"`
	ModuleName    string `yaml:"module_name,omitempty"`
	PythonVersion string `yaml:"python_version,omitempty"`

	BuildArgs []string          `yaml:"build_args,omitempty"`
	Env       map[string]string `yaml:"env,omitempty"`

	Verbose    bool `yaml:"verbose,omitempty"`
	CleanFirst bool `yaml:"clean_first,omitempty"`
	Parallel   int  `yaml:"parallel,omitempty"`
	Jobs       int  `yaml:"jobs,omitempty"`

	StopOnFailure bool `yaml:"stop_on_failure,omitempty"`

	// Logger receives one entry per external command. Nil discards.
	Logger logrus.FieldLogger `yaml:"-"`
}

// LoadConfigFile reads a BuildConfig from a YAML file. Unknown keys are
// rejected. Relative paths in the file are kept as written.
func LoadConfigFile(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	var cfg BuildConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return &cfg, nil
}

func (c *BuildConfig) packageName() string {
	if c.PackageName != "" {
		return c.PackageName
	}
	return DefaultPackageName
}

func (c *BuildConfig) moduleName() string {
	if c.ModuleName != "" {
		return c.ModuleName
	}
	return c.packageName()
}

// buildRoot resolves BuildDir against SourceDir.
func (c *BuildConfig) buildRoot() string {
	dir := c.BuildDir
	if dir == "" {
		dir = DefaultBuildDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.SourceDir, dir)
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (c *BuildConfig) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}

// CommonBuildSteps defines the configure, compile and find pattern shared
// by the builders.
//
//	return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
//	    OutOfSource:   true,
//	    ConfigureFunc: b.runCmake,
//	    BuildFunc:     b.runMake,
//	    FindFunc:      b.findModules,
//	})
type CommonBuildSteps struct {
	// OutOfSource builds in a fresh directory under config.BuildDir
	// instead of the extension directory.
	OutOfSource bool

	// ConfigureFunc prepares the build, e.g. runs cmake. May be nil.
	ConfigureFunc func(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error

	// BuildFunc compiles the module.
	BuildFunc func(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error

	// FindFunc locates the built modules after the build completes.
	FindFunc func(dirs BuildDirs) ([]string, error)
}

// BuildDirs are the directories of one extension build.
type BuildDirs struct {
	// Source holds the extension file.
	Source string
	// Build receives the build output. Equal to Source for in-tree builds.
	Build string
}
