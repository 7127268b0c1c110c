package storage

import "strings"

// basePlaceholder is substituted for the resolved data directory on every
// image-path read/write, applied uniformly at the storage boundary so
// records stay portable across machines with different data directories.
const basePlaceholder = "{{base_folder}}"

// ToPlaceholder rewrites an absolute path under baseDir into its stored
// placeholder form.
func ToPlaceholder(baseDir, absPath string) string {
	if baseDir == "" {
		return absPath
	}
	if strings.HasPrefix(absPath, baseDir) {
		return basePlaceholder + strings.TrimPrefix(absPath, baseDir)
	}
	return absPath
}

// ToAbsolute rewrites a stored placeholder-form path into an absolute
// path under baseDir.
func ToAbsolute(baseDir, storedPath string) string {
	if strings.HasPrefix(storedPath, basePlaceholder) {
		return baseDir + strings.TrimPrefix(storedPath, basePlaceholder)
	}
	return storedPath
}
