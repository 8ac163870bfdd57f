package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LogoName is the companion image the report references by relative path
const LogoName = "main_logo.png"

// WriteHTML writes rendered HTML, creating parent directories as needed
func WriteHTML(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// EnsureAsset copies <assetsDir>/<name> into destDir when the destination is
// absent or older than the source. A missing source is not an error.
// Returns whether a copy happened.
func EnsureAsset(assetsDir, destDir, name string) (bool, error) {
	src := filepath.Join(assetsDir, name)
	srcInfo, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat asset: %w", err)
	}
	if srcInfo.IsDir() {
		return false, nil
	}

	dst := filepath.Join(destDir, name)
	if dstInfo, err := os.Stat(dst); err == nil {
		if !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return false, nil
		}
	}

	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	// Carry the source mtime so the next run sees the copy as current
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return true, fmt.Errorf("failed to set asset mtime: %w", err)
	}
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open asset: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create asset copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy asset: %w", err)
	}
	return out.Close()
}
