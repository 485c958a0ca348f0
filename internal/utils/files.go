package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// SafeWriteTo buffers everything src writes and stores it at path via SafeWriteFile,
// so a failed render never leaves a truncated file behind.
func SafeWriteTo(path string, src io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return SafeWriteFile(path, buf.Bytes())
}
