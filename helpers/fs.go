package helpers

import "os"

// PathExists reports whether path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsReadable reports whether path can be opened for reading.
func IsReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// MovePath atomically renames old to new. Fails if they are on different
// filesystems.
func MovePath(old, new string) error {
	return os.Rename(old, new)
}

// RemovePath recursively deletes path. Removing a missing path is not an
// error.
func RemovePath(path string) error {
	return os.RemoveAll(path)
}

// Chmod changes the permission bits of path.
func Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
