package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ProjectFileName is the project layer, kept at the repository root next to
// the side-channel directory.
const ProjectFileName = ".git-trans.yaml"

// EnvNoInheritVar disables the system and user layers when set to 1 or true.
const EnvNoInheritVar = "GIT_TRANS_NO_INHERIT"

const (
	appDir         = "git-trans"
	sharedFileName = "config.yaml"
)

// Level is where a configuration layer comes from.
type Level string

const (
	LevelSystem  Level = "system"
	LevelUser    Level = "user"
	LevelProject Level = "project"
)

// Layer is one configuration file considered for a repository.
type Layer struct {
	Level Level
	Path  string
	// Required layers must exist. Only an explicit --config file is required.
	Required bool
	// Loaded is set once the file was read and parsed.
	Loaded bool
	// Err is the reason a present or required file could not be used.
	Err error
}

// DiscoverOptions says where a repository's configuration lives.
type DiscoverOptions struct {
	// Root is the repository root. The project layer is Root/.git-trans.yaml
	// unless ConfigPath is set.
	Root string

	// ConfigPath replaces the project layer with an explicit file, which
	// must exist.
	ConfigPath string

	// NoInherit keeps only the project layer. GIT_TRANS_NO_INHERIT has the
	// same effect.
	NoInherit bool

	// SystemConfigPath and UserConfigPath replace the platform locations of
	// the shared layers. A path that does not exist disables the layer.
	SystemConfigPath string
	UserConfigPath   string
}

// Discover lists the layers for a repository, lowest precedence first.
// A file reachable through two levels is kept only at the lower one.
func Discover(opts DiscoverOptions) []Layer {
	var layers []Layer
	if !opts.NoInherit && !EnvNoInherit() {
		layers = append(layers,
			Layer{Level: LevelSystem, Path: firstNonEmpty(opts.SystemConfigPath, systemConfigPath())},
			Layer{Level: LevelUser, Path: firstNonEmpty(opts.UserConfigPath, userConfigPath())},
		)
	}
	project := Layer{Level: LevelProject, Path: opts.ConfigPath, Required: opts.ConfigPath != ""}
	if project.Path == "" && opts.Root != "" {
		project.Path = filepath.Join(opts.Root, ProjectFileName)
	}
	layers = append(layers, project)

	out := layers[:0]
	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if l.Path == "" {
			continue
		}
		key := l.Path
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// systemConfigPath is /etc/git-trans/config.yaml, or the ProgramData
// equivalent on Windows.
func systemConfigPath() string {
	if runtime.GOOS == "windows" {
		base := os.Getenv("ProgramData")
		if base == "" {
			base = `C:\ProgramData`
		}
		return filepath.Join(base, appDir, sharedFileName)
	}
	return filepath.Join("/etc", appDir, sharedFileName)
}

// userConfigPath follows os.UserConfigDir, so XDG_CONFIG_HOME is honored.
// It is empty when no home directory is known.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDir, sharedFileName)
}

// EnvNoInherit reports whether GIT_TRANS_NO_INHERIT asks for project-only
// configuration.
func EnvNoInherit() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvNoInheritVar))) {
	case "1", "true":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
