package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

// Init routes the standard logger to stderr and, when logPath is set, to an
// append-only log file. Stdout is left to the commands' status lines.
func Init(logPath string, enableDebug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	debug = enableDebug

	var writers []io.Writer
	writers = append(writers, os.Stderr)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	debug = false
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Warnf records something the user should know about but that does not stop the run.
func Warnf(format string, args ...any) {
	log.Println("[WARN] " + fmt.Sprintf(format, args...))
}

// Debugf records an event only when debug output was requested.
func Debugf(format string, args ...any) {
	mu.Lock()
	on := debug
	mu.Unlock()
	if !on {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// Fields renders key/value pairs as "k=v k=v" for event lines.
func Fields(kv ...any) string {
	parts := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(fmt.Sprint(kv[i]))
		if key == "" {
			key = "unknown"
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, kv[i+1]))
	}
	return strings.Join(parts, " ")
}
