package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// ErrWriteReport wraps every failure to persist a report.
var ErrWriteReport = errors.New("write report")

// WriteFile writes the CSV export to path, creating its directory.
// With compress set the file is gzip encoded.
func WriteFile(path string, rep Report, compress bool) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrWriteReport, dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteReport, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrWriteReport, path, cerr)
		}
	}()

	if !compress {
		if err := rep.WriteCSV(f); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
		}
		return nil
	}

	zw := gzip.NewWriter(f)
	if err := rep.WriteCSV(zw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	return nil
}
