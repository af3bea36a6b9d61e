package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Used for file system mocking with Afero library. Set:
// fileSystem = afero.NewOsFs() if not unit testing (code will use real file system) OR
// fileSystem = afero.NewMemMapFs() for a mocked file system (when unit testing)
var fileSystem = afero.NewOsFs()

func MockFileSystem(switcher bool) {
	if switcher {
		fileSystem = afero.NewMemMapFs()
	} else {
		fileSystem = afero.NewOsFs()
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ValidateOutputPath checks, without writing anything, that path can be
// created as a file: it is not a directory, its parent exists and the
// parent is writable. It returns the expanded path.
func ValidateOutputPath(path string) (string, error) {
	path = ExpandPath(path)
	if path == "" {
		return "", fmt.Errorf("output path is empty")
	}

	if info, err := fileSystem.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path %s is a directory", path)
	}

	parent := filepath.Dir(path)
	info, err := fileSystem.Stat(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("output directory %s does not exist", parent)
		}
		return "", fmt.Errorf("output directory %s: %w", parent, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output directory %s is not a directory", parent)
	}
	if info.Mode().Perm()&0200 == 0 {
		return "", fmt.Errorf("output directory %s is not writable", parent)
	}
	return path, nil
}

// DefaultOutputPath builds <prefix>_YYYYMMDD-HHMMSS.<csv|json>.
func DefaultOutputPath(prefix string, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102-150405"), strings.ToLower(format))
}
