package extbuild

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BuilderFactory manages the registration and selection of builders.
//
// The factory maintains a registry of Builder implementations and provides
// methods to:
//   - Register new builders
//   - Find the appropriate builder for an extension file
//   - Build several extensions, in sequence or concurrently
//
// # Usage
//
//	factory := extbuild.NewBuilderFactory()
//	results, err := factory.BuildAllExtensions(ctx, config, []string{"CMakeLists.txt"})
//
// # Builder Selection
//
// When building an extension, the factory:
//  1. Extracts the filename from the extension path
//  2. Calls CanBuild() on each registered builder in order
//  3. Uses the first builder that returns true
//  4. Returns ErrNoBuilder if no builder can handle the file
//
// # Thread Safety
//
// Register all builders before concurrent use. After registration,
// BuilderFor and BuildAllExtensions are safe for concurrent use.
type BuilderFactory struct {
	builders []Builder
}

// NewBuilderFactory creates a factory with all standard builders registered.
//
// The standard builders are registered in this order:
//  1. CMakeBuilder - CMakeLists.txt
//  2. MakefileBuilder - Makefile, GNUmakefile
//  3. GoBuilder - go.mod, *.go
//  4. Meson - meson.build
//  5. Zig - build.zig, *.zig
func NewBuilderFactory() *BuilderFactory {
	factory := &BuilderFactory{}

	factory.Register(&CMakeBuilder{})
	factory.Register(&MakefileBuilder{})
	factory.Register(&GoBuilder{})
	factory.Register(NewMesonBuilder())
	factory.Register(NewZigBuilder())

	return factory
}

// Register adds a new builder to the factory. Builders are checked in the
// order they are registered.
func (f *BuilderFactory) Register(builder Builder) {
	f.builders = append(f.builders, builder)
}

// BuilderFor returns the first registered builder that can handle the
// base name of extensionFile.
func (f *BuilderFactory) BuilderFor(extensionFile string) (Builder, error) {
	filename := filepath.Base(extensionFile)

	for _, builder := range f.builders {
		if builder.CanBuild(filename) {
			return builder, nil
		}
	}

	return nil, ErrNoBuilder.New(filename)
}

// ListBuilders returns a copy of all registered builders.
func (f *BuilderFactory) ListBuilders() []Builder {
	return append([]Builder{}, f.builders...)
}

// BuildAllExtensions builds every extension and returns one result per
// extension processed, with the first error encountered.
//
// # Error Handling
//
// If config.StopOnFailure is true:
//   - Extensions are built in order, one at a time
//   - Processing stops after the first failed extension
//   - Results contain the extensions up to and including the failure
//
// Otherwise:
//   - Up to config.Jobs extensions are built at once (at least one)
//   - Results hold one entry per extension, in the input order
//
// # Context Cancellation
//
// Extensions not started when the context is canceled get a result
// holding the context error.
func (f *BuilderFactory) BuildAllExtensions(ctx context.Context, config *BuildConfig, extensions []string) ([]*BuildResult, error) {
	if len(extensions) == 0 {
		return nil, nil
	}
	if config.StopOnFailure {
		return f.buildSequential(ctx, config, extensions)
	}
	return f.buildConcurrent(ctx, config, extensions)
}

func (f *BuilderFactory) buildSequential(ctx context.Context, config *BuildConfig, extensions []string) ([]*BuildResult, error) {
	var results []*BuildResult

	for _, extension := range extensions {
		result := f.buildOne(ctx, config, extension)
		results = append(results, result)
		if !result.Success {
			return results, result.Error
		}
	}
	return results, nil
}

func (f *BuilderFactory) buildConcurrent(ctx context.Context, config *BuildConfig, extensions []string) ([]*BuildResult, error) {
	results := make([]*BuildResult, len(extensions))

	var eg errgroup.Group
	eg.SetLimit(max(config.Jobs, 1))
	for i, extension := range extensions {
		eg.Go(func() error {
			results[i] = f.buildOne(ctx, config, extension)
			return nil
		})
	}
	_ = eg.Wait()

	for _, result := range results {
		if !result.Success {
			return results, result.Error
		}
	}
	return results, nil
}

// buildOne selects the builder, checks its tools and runs it. The result
// is never nil and carries the error when the build failed.
func (f *BuilderFactory) buildOne(ctx context.Context, config *BuildConfig, extension string) *BuildResult {
	failed := func(err error) *BuildResult {
		return &BuildResult{Error: err}
	}

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	builder, err := f.BuilderFor(extension)
	if err != nil {
		return failed(err)
	}

	log := config.logger().WithField("builder", builder.Name())

	if checker, ok := builder.(ToolChecker); ok {
		if missing := MissingTools(checker.RequiredTools()); len(missing) > 0 {
			result := failed(ErrMissingTools.New(builder.Name(), strings.Join(missing, ", ")))
			result.MissingDependencies = missing
			log.WithError(result.Error).Error("build tools missing")
			return result
		}
	}

	log.Infof("building %s", extension)
	result, err := builder.Build(ctx, config, extension)
	if result == nil {
		result = failed(err)
	}
	if err != nil {
		result.Success = false
		result.Error = err
		log.WithError(err).Errorf("failed to build %s", extension)
		return result
	}

	log.WithField("modules", len(result.Modules)).Infof("built %s", extension)
	return result
}
