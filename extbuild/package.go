package extbuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// initFile is the initializer written next to the module.
const initFile = "__init__.py"

// AssemblePackage creates the package directory around a built module:
//
//	<PackageDir>/<PackageName>/<ModuleName>.so
//	<PackageDir>/<PackageName>/__init__.py
//
// The initializer re-exports every symbol of the module. An existing
// package directory is replaced. It returns the package directory.
//
// The module copied is the one of result.Modules named <ModuleName>.so,
// or the first module when none has that name.
func AssemblePackage(config *BuildConfig, result *BuildResult) (string, error) {
	if result == nil || len(result.Modules) == 0 {
		return "", errors.New("no built module to package")
	}

	name, module := config.packageName(), config.moduleName()
	src := pickModule(result.Modules, module+".so")

	pkgDir := filepath.Join(config.PackageDir, name)
	if err := os.RemoveAll(pkgDir); err != nil {
		return "", errors.Wrapf(err, "failed to remove %s", pkgDir)
	}
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", pkgDir)
	}

	if err := copyFile(src, filepath.Join(pkgDir, module+".so")); err != nil {
		return "", errors.Wrapf(err, "failed to copy %s", src)
	}

	initSrc := fmt.Sprintf("# %s python package\nfrom .%s import *", name, module)
	if err := os.WriteFile(filepath.Join(pkgDir, initFile), []byte(initSrc), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", initFile)
	}

	config.logger().WithFields(logrus.Fields{
		"package": pkgDir,
		"module":  src,
	}).Info("package assembled")
	return pkgDir, nil
}

// BuildPackage builds extensionFile with the builder registered for it and
// assembles the package directory from the result.
func (f *BuilderFactory) BuildPackage(ctx context.Context, config *BuildConfig, extensionFile string) (string, *BuildResult, error) {
	result := f.buildOne(ctx, config, extensionFile)
	if !result.Success {
		return "", result, result.Error
	}
	pkgDir, err := AssemblePackage(config, result)
	return pkgDir, result, err
}

func pickModule(modules []string, want string) string {
	for _, m := range modules {
		if filepath.Base(m) == want {
			return m
		}
	}
	return modules[0]
}

func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
