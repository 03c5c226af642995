package extbuild

import (
	"context"
	"path/filepath"
	"strings"
)

// MakefileBuilder handles plain Makefile-based builds.
//
// The build runs in the extension directory, with BuildArgs passed to make
// as targets or variable assignments:
//
//	make -j4 PYTHON=python3.12
type MakefileBuilder struct{}

// Name returns the builder name
func (b *MakefileBuilder) Name() string {
	return "Makefile"
}

// RequiredTools returns the tools needed for Makefile builds
func (b *MakefileBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:         makeProgram,
			Alternatives: []string{gmakeProgram},
			Purpose:      "Build automation tool",
		},
		{
			Name:         "cc",
			Alternatives: []string{"gcc", "clang"},
			Purpose:      "C/C++ compiler",
		},
	}
}

// CheckTools verifies that make and a compiler are available
func (b *MakefileBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *MakefileBuilder) CanBuild(extensionFile string) bool {
	filename := strings.ToLower(filepath.Base(extensionFile))
	return filename == "makefile" || filename == "gnumakefile"
}

// Build compiles the module using make
func (b *MakefileBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		BuildFunc: b.runMake,
		FindFunc:  b.findModules,
	})
}

// Clean runs make clean, ignoring a missing clean target
func (b *MakefileBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	dir := filepath.Dir(filepath.Join(config.SourceDir, extensionFile))
	_ = runCommand(ctx, config, &BuildResult{}, b.Name(), dir, nil, getMakeProgram(), "clean")
	return nil
}

func (b *MakefileBuilder) runMake(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error {
	makeProgram := getMakeProgram()

	if config.CleanFirst {
		// clean targets are optional
		_ = runCommand(ctx, config, result, b.Name(), dirs.Build, nil, makeProgram, "clean")
	}

	var env []string
	if version := config.PythonVersion; version != "" {
		env = append(env, "PYTHON_VERSION="+version)
	}

	args := append([]string{parallelFlag(config)}, config.BuildArgs...)
	return runCommand(ctx, config, result, b.Name(), dirs.Build, env, makeProgram, args...)
}

func (b *MakefileBuilder) findModules(dirs BuildDirs) ([]string, error) {
	return findModules([]string{dirs.Build}, sharedModulePatterns)
}
