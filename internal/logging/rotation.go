package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig bounds the size of the debug log. Every chstack command
// appends to {stateDir}/debug.log, so long-lived checkouts would grow the
// file without bound otherwise.
type RotationConfig struct {
	// MaxSizeMB is the size at which debug.log is rolled over.
	// 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is how many rolled files (debug.log.1 .. debug.log.N)
	// are kept. 0 keeps none.
	MaxBackups int
	// Compress gzips rolled files.
	Compress bool
}

// DefaultRotationConfig mirrors the logging defaults in the config package.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter is an io.Writer over a single log file that rolls the
// file to numbered backups once it crosses the configured size. It is
// safe for concurrent use; every Logger clone shares one writer.
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	cfg  RotationConfig

	maxBytes int64
	size     int64
	f        *os.File
}

// NewRotatingWriter opens (creating if needed) the log file at path.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:     path,
		cfg:      cfg,
		maxBytes: int64(cfg.MaxSizeMB) << 20,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// open (re)opens the log file in append mode and records its size.
// Callers must hold mu.
func (w *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.f = f
	w.size = info.Size()
	return nil
}

// Write appends p, rolling the file first when the write would push it
// past the limit. A failed roll is reported on stderr and the entry is
// still written to the current file so nothing is dropped.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if w.maxBytes > 0 && w.size+int64(len(p)) > w.maxBytes {
		if err := w.roll(); err != nil {
			fmt.Fprintf(os.Stderr, "chstack: log rotation failed: %v\n", err)
		}
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// roll closes the current file, shifts the numbered backups, moves the
// file to .1 and reopens a fresh one. Callers must hold mu.
func (w *RotatingWriter) roll() error {
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	w.f = nil

	w.shiftBackups()

	first := w.backupName(1)
	if err := os.Rename(w.path, first); err != nil {
		if openErr := w.open(); openErr != nil {
			return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
		}
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	if w.cfg.Compress {
		go w.compressBackup(first)
	}

	return w.open()
}

// shiftBackups renumbers existing backups, newest first, dropping
// whatever falls past MaxBackups. A backup may exist in plain or
// gzipped form.
func (w *RotatingWriter) shiftBackups() {
	if w.cfg.MaxBackups <= 0 {
		os.Remove(w.backupName(1))
		os.Remove(w.backupName(1) + ".gz")
		return
	}

	os.Remove(w.backupName(w.cfg.MaxBackups))
	os.Remove(w.backupName(w.cfg.MaxBackups) + ".gz")

	for i := w.cfg.MaxBackups - 1; i >= 1; i-- {
		from, to := w.backupName(i), w.backupName(i+1)
		if _, err := os.Stat(from + ".gz"); err == nil {
			os.Rename(from+".gz", to+".gz")
		} else if _, err := os.Stat(from); err == nil {
			os.Rename(from, to)
		}
	}
}

func (w *RotatingWriter) backupName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}

// compressBackup gzips a rolled file in the background and removes the
// original only on success; a failure leaves the plain backup in place.
func (w *RotatingWriter) compressBackup(path string) {
	src, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chstack: cannot compress %s: %v\n", path, err)
		return
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chstack: cannot compress %s: %v\n", path, err)
		return
	}

	zw := gzip.NewWriter(dst)
	_, err = io.Copy(zw, src)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(gzPath)
		fmt.Fprintf(os.Stderr, "chstack: cannot compress %s: %v\n", path, err)
		return
	}

	os.Remove(path)
}

// Sync flushes the current file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return nil
	}
	return w.f.Sync()
}

// Close syncs and closes the current file. Subsequent writes fail.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return nil
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	w.f = nil
	return nil
}

// CurrentSize reports the size of the active log file in bytes.
func (w *RotatingWriter) CurrentSize() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// FilePath returns the active log file path.
func (w *RotatingWriter) FilePath() string {
	return w.path
}
