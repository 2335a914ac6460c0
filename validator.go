package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// validator checks load sources and dump targets before any I/O starts.
type validator struct{}

func newValidator() *validator {
	return &validator{}
}

// validateSource checks a local path or URL handed to Loader.Load.
// URLs are only checked syntactically; they are validated by fetching.
func (v *validator) validateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return errors.New("source cannot be empty")
	}
	if isURL(source) {
		return nil
	}

	fileType, _ := DetectFileType(source)
	if fileType == FileTypeUnsupported {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return openError(err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, use LoadDir", source)
	}
	return nil
}

// validateDir checks a directory handed to Loader.LoadDir.
func (v *validator) validateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("directory cannot be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return openError(err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// validateReader checks the arguments of Loader.LoadReader.
func (v *validator) validateReader(r io.Reader, fileType FileType) error {
	if r == nil {
		return errors.New("reader cannot be nil")
	}
	if fileType == FileTypeUnsupported {
		return fmt.Errorf("%w: file type must be specified for reader input", ErrUnsupportedFormat)
	}
	return nil
}

// validateOutputPath checks that the directory receiving a dump exists.
func (v *validator) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path cannot be empty")
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path exists but is not a directory: %s", dir)
	}
	return nil
}
