package config

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the default home directory
const HomeEnv = "DEETASK_HOME"

// DefaultHomeDirName is created under the user's home directory
const DefaultHomeDirName = ".deetask"

// ResolveHome picks the deetask home directory.
// Priority: flag > DEETASK_HOME > ~/.deetask (./.deetask if the user home is unknown)
func ResolveHome(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	if dir, err := os.UserHomeDir(); err == nil && dir != "" {
		return filepath.Join(dir, DefaultHomeDirName)
	}
	return DefaultHomeDirName
}
