package extbuild

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Replaced in tests.
var (
	execCommandContext = exec.CommandContext
	execLookPath       = exec.LookPath
)

// runCommonBuild executes the configure, build and find steps of a builder.
//
// # Process Flow
//
//  1. Resolve the extension directory from config.SourceDir and extensionFile
//  2. For out-of-source builds, recreate an empty build directory
//  3. Call ConfigureFunc (if any), then BuildFunc
//  4. Call FindFunc and fail when no module was produced
//
// If any step fails, processing stops and the error is returned with
// Success=false. Output lines are appended to the result by the steps as
// they run.
func runCommonBuild(ctx context.Context, config *BuildConfig, extensionFile string, steps CommonBuildSteps) (*BuildResult, error) {
	result := &BuildResult{
		Output: []string{},
	}
	fail := func(err error) (*BuildResult, error) {
		result.Error = err
		return result, err
	}

	source, err := filepath.Abs(filepath.Dir(filepath.Join(config.SourceDir, extensionFile)))
	if err != nil {
		return fail(errors.Wrap(err, "failed to resolve extension directory"))
	}
	dirs := BuildDirs{Source: source, Build: source}

	if steps.OutOfSource {
		dirs.Build, err = freshBuildDir(config, source)
		if err != nil {
			return fail(err)
		}
	}

	if steps.ConfigureFunc != nil {
		if err := steps.ConfigureFunc(ctx, config, dirs, result); err != nil {
			return fail(err)
		}
	}

	if err := steps.BuildFunc(ctx, config, dirs, result); err != nil {
		return fail(err)
	}

	modules, err := steps.FindFunc(dirs)
	if err != nil {
		return fail(err)
	}
	if len(modules) == 0 {
		return fail(ErrNoModule.New(dirs.Build))
	}

	result.Modules = modules
	result.Success = true
	return result, nil
}

// freshBuildDir removes and recreates the build directory of an
// extension. Extensions in sub directories of SourceDir get their own
// sub directory of the build root.
func freshBuildDir(config *BuildConfig, source string) (string, error) {
	root, err := filepath.Abs(config.buildRoot())
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve build directory")
	}

	dir := root
	if src, err := filepath.Abs(config.SourceDir); err == nil {
		if rel, err := filepath.Rel(src, source); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			dir = filepath.Join(root, rel)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", errors.Wrapf(err, "failed to remove %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", dir)
	}
	return dir, nil
}

// runCommand runs one external tool in dir, appends its combined output
// to result and turns a failure into a BuildError for builder.
func runCommand(ctx context.Context, config *BuildConfig, result *BuildResult, builder, dir string, extraEnv []string, name string, args ...string) error {
	cmd := execCommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = commandEnv(cmd.Env, config, extraEnv)

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	log := config.logger().WithFields(logrus.Fields{
		"builder": builder,
		"dir":     dir,
	})
	log.Debugf("running %s", line)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, outputLines(output)...)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: %s", line),
			fmt.Sprintf("Working directory: %s", dir))
	}

	if err != nil {
		log.WithError(err).Warnf("%s failed", name)
		return BuildError(builder, result.Output, err)
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debugf("%s done", name)
	return nil
}

// commandEnv starts from base, or the process environment when base is
// nil, and adds config.Env then extra.
func commandEnv(base []string, config *BuildConfig, extra []string) []string {
	if base == nil {
		base = os.Environ()
	}
	env := append([]string{}, base...)
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	return append(env, extra...)
}

func outputLines(output []byte) []string {
	s := strings.TrimRight(string(output), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
