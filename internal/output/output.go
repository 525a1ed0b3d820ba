// Package output writes JSON reports to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// encoder sorts map keys so repeated runs produce identical bytes, and
// writes '<', '>' and '&' verbatim.
var encoder = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
}.Froze()

// Marshal encodes v as indented JSON with a trailing newline.
func Marshal(v any) ([]byte, error) {
	b, err := encoder.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// WriteJSON encodes v and replaces path with it. The data goes to a
// temporary file in the same directory first, so path is either left
// untouched or holds the complete document.
func WriteJSON(path string, v any) error {
	b, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
