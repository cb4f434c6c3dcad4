// FILE: lixenwraith/libconfig/discovery.go
package libconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions controls where Discover looks for a configuration file.
// Sources are tried in order: CLIFlag in the arguments, EnvVar, Paths, the working
// directory, then the XDG config directories.
type FileDiscoveryOptions struct {
	Name       string   // file name without extension
	Extensions []string // tried in order for every directory
	Paths      []string // extra directories, searched before the defaults

	EnvVar  string // variable holding an explicit file path
	CLIFlag string // e.g. "--config"; both "--config=x" and "--config x" are accepted

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions searches for appName.cfg, .conf or .config and honors
// APPNAME_CONFIG and --config.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".cfg", ".conf", ".config"},
		EnvVar:        strings.ToUpper(strings.ReplaceAll(appName, "-", "_")) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discover returns the first config file found for opts, in priority order:
// the CLI flag in args, the environment variable, custom paths, the current
// directory, then XDG directories. It returns false when nothing is found.
func Discover(opts FileDiscoveryOptions, args []string) (string, bool) {
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1], true
			}
			if value, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok {
				return value, true
			}
		}
	}

	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	searchPaths := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}
	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// WithFileDiscovery enables automatic config file discovery.
// No file found is not an error: the app can run with defaults and overrides.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if path, ok := Discover(opts, b.args); ok {
		b.file = path
	}
	return b
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
