package extbuild

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// GenericBuilder provides a configurable builder for any build system that
// produces a shared module from a single command.
//
// # Configuration
//
// GenericBuilder is configured with:
//   - File patterns to detect (e.g., "meson.build", "build.zig")
//   - Required tools and alternatives
//   - Build command templates, run in order
//   - Output file patterns
//
// # Example: Nim
//
//	nim := NewGenericBuilder(&GenericBuilderConfig{
//	    Name:     "Nim",
//	    Patterns: []string{"*.nim"},
//	    Tools:    []ToolRequirement{{Name: "nim", Purpose: "Nim compiler"}},
//	    BuildCommands: [][]string{
//	        {"nim", "c", "--app:lib", "-o:{{output}}", "{{input}}"},
//	    },
//	    OutputPatterns: []string{"{{module}}.so"},
//	})
type GenericBuilder struct {
	name           string
	patterns       []string
	tools          []ToolRequirement
	buildCommands  [][]string
	cleanCommand   []string
	outputPatterns []string
	outOfSource    bool
}

// GenericBuilderConfig defines configuration for a GenericBuilder.
type GenericBuilderConfig struct {
	// Name is the human-readable builder name (e.g., "Meson", "Zig")
	Name string

	// Patterns are file patterns to match (e.g., "meson.build", "*.zig")
	Patterns []string

	// Tools are the required build tools
	Tools []ToolRequirement

	// BuildCommands are the command templates to run, in order.
	// Supports placeholders:
	//   {{input}}  - The extension file name (e.g., build.zig)
	//   {{output}} - The module file name (e.g., pyleeloo.so)
	//   {{module}} - The module name without extension
	//   {{source}} - The extension directory
	//   {{build}}  - The build directory
	//   {{python}} - The python version, possibly empty
	// config.BuildArgs are appended to the last command.
	BuildCommands [][]string

	// CleanCommand is an optional command to clean build artifacts
	CleanCommand []string

	// OutputPatterns are glob patterns, relative to the build directory,
	// to find built modules. They support the same placeholders.
	OutputPatterns []string

	// OutOfSource runs the commands in a fresh directory under BuildDir.
	OutOfSource bool
}

// NewGenericBuilder creates a new GenericBuilder from configuration.
func NewGenericBuilder(config *GenericBuilderConfig) *GenericBuilder {
	return &GenericBuilder{
		name:           config.Name,
		patterns:       config.Patterns,
		tools:          config.Tools,
		buildCommands:  config.BuildCommands,
		cleanCommand:   config.CleanCommand,
		outputPatterns: config.OutputPatterns,
		outOfSource:    config.OutOfSource,
	}
}

// Name returns the builder name
func (b *GenericBuilder) Name() string {
	return b.name
}

// RequiredTools returns the tools needed for this builder
func (b *GenericBuilder) RequiredTools() []ToolRequirement {
	return b.tools
}

// CheckTools verifies that all required tools are available
func (b *GenericBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *GenericBuilder) CanBuild(extensionFile string) bool {
	filename := strings.ToLower(filepath.Base(extensionFile))

	for _, pattern := range b.patterns {
		if matched, _ := filepath.Match(strings.ToLower(pattern), filename); matched {
			return true
		}
	}
	return false
}

// Build runs the configured build commands
func (b *GenericBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	input := filepath.Base(extensionFile)
	return runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		OutOfSource: b.outOfSource,
		BuildFunc: func(ctx context.Context, config *BuildConfig, dirs BuildDirs, result *BuildResult) error {
			return b.runBuild(ctx, config, dirs, input, result)
		},
		FindFunc: func(dirs BuildDirs) ([]string, error) {
			return b.findModules(ctx, config, dirs, input)
		},
	})
}

// Clean runs the configured clean command, ignoring its failure
func (b *GenericBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	if len(b.cleanCommand) == 0 {
		return nil
	}

	dir := filepath.Dir(filepath.Join(config.SourceDir, extensionFile))
	_ = runCommand(ctx, config, &BuildResult{}, b.name, dir, nil, b.cleanCommand[0], b.cleanCommand[1:]...)
	return nil
}

func (b *GenericBuilder) runBuild(ctx context.Context, config *BuildConfig, dirs BuildDirs, input string, result *BuildResult) error {
	if len(b.buildCommands) == 0 {
		return errors.Errorf("no build command configured for %s builder", b.name)
	}

	r := b.replacer(ctx, config, dirs, input)
	for i, command := range b.buildCommands {
		args := make([]string, 0, len(command)+len(config.BuildArgs))
		for _, arg := range command {
			args = append(args, r.Replace(arg))
		}
		if i == len(b.buildCommands)-1 {
			args = append(args, config.BuildArgs...)
		}

		//nolint:gosec // Command is from trusted builder configuration
		if err := runCommand(ctx, config, result, b.name, dirs.Build, nil, args[0], args[1:]...); err != nil {
			return err
		}
	}
	return nil
}

func (b *GenericBuilder) findModules(ctx context.Context, config *BuildConfig, dirs BuildDirs, input string) ([]string, error) {
	r := b.replacer(ctx, config, dirs, input)
	patterns := make([]string, len(b.outputPatterns))
	for i, pattern := range b.outputPatterns {
		patterns[i] = r.Replace(pattern)
	}
	return findModules([]string{dirs.Build}, patterns)
}

func (b *GenericBuilder) replacer(ctx context.Context, config *BuildConfig, dirs BuildDirs, input string) *strings.Replacer {
	python := ""
	if strings.Contains(strings.Join(flatten(b.buildCommands), " "), "{{python}}") {
		python = PythonVersion(ctx, config)
	}
	return strings.NewReplacer(
		"{{input}}", input,
		"{{output}}", moduleFile(config),
		"{{module}}", config.moduleName(),
		"{{source}}", dirs.Source,
		"{{build}}", dirs.Build,
		"{{python}}", python,
	)
}

func flatten(commands [][]string) []string {
	var out []string
	for _, c := range commands {
		out = append(out, c...)
	}
	return out
}

// NewMesonBuilder creates a builder for Meson projects. The module target
// is expected to be named after config.ModuleName.
func NewMesonBuilder() *GenericBuilder {
	return NewGenericBuilder(&GenericBuilderConfig{
		Name:     "Meson",
		Patterns: []string{"meson.build"},
		Tools: []ToolRequirement{
			{Name: "meson", Purpose: "Meson build system"},
			{Name: "ninja", Alternatives: []string{"samu"}, Purpose: "Ninja build tool"},
		},
		BuildCommands: [][]string{
			{"meson", "setup", "--buildtype=release", "{{build}}", "{{source}}"},
			{"meson", "compile", "-C", "{{build}}"},
		},
		OutputPatterns: []string{"{{module}}*.so", "*.so"},
		OutOfSource:    true,
	})
}

// NewZigBuilder creates a builder for Zig modules.
func NewZigBuilder() *GenericBuilder {
	return NewGenericBuilder(&GenericBuilderConfig{
		Name:     "Zig",
		Patterns: []string{"build.zig", "*.zig"},
		Tools: []ToolRequirement{
			{Name: "zig", Purpose: "Zig compiler and build system"},
		},
		BuildCommands: [][]string{
			{"zig", "build-lib", "-dynamic", "-O", "ReleaseFast", "-femit-bin={{output}}", "{{input}}"},
		},
		OutputPatterns: []string{"{{output}}", "zig-out/lib/*.so"},
	})
}
