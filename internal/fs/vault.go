// Package fs provides file system utilities for the Reply application.
// It handles operations related to the application's vault directory.
package fs

import (
	"fmt"
	"os"
)

// EnsureVaultExists checks if the specified vault directory exists and is accessible.
// If the directory doesn't exist, it creates it with default permissions (0755).
//
// Example:
//
//	err := fs.EnsureVaultExists("/path/to/vault")
//	if err != nil {
//	    log.Fatalf("Failed to initialize vault: %v", err)
//	}
func EnsureVaultExists(path string) error {
	info, err := os.Stat(path)

	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check vault directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("vault path exists but is not a directory: %s", path)
	}

	if info.Mode().Perm()&0200 == 0 {
		return fmt.Errorf("insufficient permissions to write to vault directory: %s", path)
	}

	return nil
}
