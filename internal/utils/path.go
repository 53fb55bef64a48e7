package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ResolveDataFile finds a data file named by a config value.
// It tries, in order:
// 1. the path as given (absolute, or relative to the working directory)
// 2. relative to the executable directory
// 3. relative to the config directory
// When nothing exists the path is returned unchanged so the caller reports the original name.
func ResolveDataFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	candidates := []string{name}
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, name))
	}
	candidates = append(candidates, filepath.Join(ConfigDir(), name))

	for _, path := range candidates {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			log.Debugf("Resolved %s to %s", name, path)
			return path
		}
		log.Debugf("Data file candidate not found: %s", path)
	}
	return name
}
