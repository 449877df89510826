package report

import (
	"fmt"
	"os"
)

// Mode selects how WriteRow treats an existing report file.
type Mode int

const (
	// ModeCreate truncates the file; the first trial of a sweep uses it.
	ModeCreate Mode = iota
	// ModeAppend adds the row after existing ones.
	ModeAppend
)

func (m Mode) String() string {
	if m == ModeAppend {
		return "append"
	}
	return "create"
}

// WriteRow persists one row as a single line.
func WriteRow(path string, row Row, mode Mode) error {
	flags := os.O_WRONLY | os.O_CREATE
	if mode == ModeAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open report %s: %w", path, err)
	}
	if _, err := fmt.Fprintln(f, row.Format()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", path, err)
	}
	return nil
}
