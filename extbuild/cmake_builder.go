package extbuild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Build tool constants
const (
	makeProgram   = "make"
	gmakeProgram  = "gmake"
	cmakeProgram  = "cmake"
	pythonProgram = "python3"
)

// CMakeBuilder handles CMake projects such as the leeloo Python binding.
//
// The build is out of source: the build directory is recreated empty, then
//
//	cmake -DCMAKE_BUILD_TYPE=release -DPYTHON_VERSION=3.12 <source dir>
//	make -j
//
// and the shared modules left in the build directory are collected.
type CMakeBuilder struct{}

// Name returns the builder name
func (b *CMakeBuilder) Name() string {
	return "CMake"
}

// RequiredTools returns the tools needed for CMake builds
func (b *CMakeBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: cmakeProgram, Purpose: "CMake build system"},
		{Name: makeProgram, Alternatives: []string{gmakeProgram}, Purpose: "Build automation tool"},
	}
}

// CheckTools verifies that cmake and make are available
func (b *CMakeBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *CMakeBuilder) CanBuild(extensionFile string) bool {
	return MatchesPattern(extensionFile, `CMakeLists\.txt$`)
}

// Build compiles the module using the cmake → make workflow
func (b *CMakeBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		OutOfSource:   true,
		ConfigureFunc: b.runCmake,
		BuildFunc:     b.runMake,
		FindFunc:      b.findModules,
	})
}

// Clean removes the build directory
func (b *CMakeBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	dir, err := filepath.Abs(config.buildRoot())
	if err != nil {
		return errors.Wrap(err, "failed to resolve build directory")
	}
	if sub := filepath.Dir(extensionFile); sub != "." {
		dir = filepath.Join(dir, sub)
	}
	return errors.Wrapf(os.RemoveAll(dir), "failed to remove %s", dir)
}

// runCmake executes cmake to configure the build
func (b *CMakeBuilder) runCmake(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error {
	args := []string{"-DCMAKE_BUILD_TYPE=release"}

	if version := PythonVersion(ctx, config); version != "" {
		args = append(args, "-DPYTHON_VERSION="+version)
	}

	args = append(args, config.BuildArgs...)
	args = append(args, dirs.Source)

	return runCommand(ctx, config, result, b.Name(), dirs.Build, nil, cmakeProgram, args...)
}

// runMake executes make in the build directory
func (b *CMakeBuilder) runMake(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error {
	return runCommand(ctx, config, result, "Make", dirs.Build, nil, getMakeProgram(), parallelFlag(config))
}

// findModules locates the shared modules cmake placed in the build directory
func (b *CMakeBuilder) findModules(dirs BuildDirs) ([]string, error) {
	// CMake can output to various directories depending on configuration
	searchDirs := []string{
		dirs.Build,
		filepath.Join(dirs.Build, "lib"),
		filepath.Join(dirs.Build, "Release"),
		filepath.Join(dirs.Build, "bindings", "python"),
	}
	return findModules(searchDirs, sharedModulePatterns)
}

// PythonVersion returns config.PythonVersion, or the "major.minor" version
// of the python3 found in PATH. It returns "" when neither is available.
func PythonVersion(ctx context.Context, config *BuildConfig) string {
	if config.PythonVersion != "" {
		return config.PythonVersion
	}

	cmd := execCommandContext(ctx, pythonProgram, "-c", "import sys; print('%d.%d' % sys.version_info[:2])")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		config.logger().WithError(err).Warn("could not detect the python version")
		return ""
	}

	version := strings.TrimSpace(out.String())
	major, minor, ok := strings.Cut(version, ".")
	if !ok || !isNumber(major) || !isNumber(minor) {
		config.logger().Warnf("unexpected python version %q", version)
		return ""
	}
	return version
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// parallelFlag returns -jN, or a bare -j when config.Parallel is zero.
func parallelFlag(config *BuildConfig) string {
	if config.Parallel > 0 {
		return "-j" + strconv.Itoa(config.Parallel)
	}
	return "-j"
}

// getMakeProgram returns the appropriate make program for the platform
func getMakeProgram() string {
	// Check environment variable first
	if makeEnv := os.Getenv("MAKE"); makeEnv != "" {
		return makeEnv
	}

	switch runtime.GOOS {
	case "freebsd", "openbsd", "netbsd":
		return gmakeProgram
	default:
		return makeProgram
	}
}
