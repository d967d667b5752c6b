package boardio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
)

// WriteJSON encodes b as an indented JSON document stamped with now.
func WriteJSON(b *board.Board, w io.Writer, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(b, now)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes b as a YAML document stamped with now.
func WriteYAML(b *board.Board, w io.Writer, now time.Time) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(b, now)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Write encodes b in the given format.
func Write(b *board.Board, w io.Writer, f Format, now time.Time) error {
	switch f {
	case FormatJSON:
		return WriteJSON(b, w, now)
	case FormatYAML:
		return WriteYAML(b, w, now)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// ExportFile writes b to path; the extension selects the format.
func ExportFile(b *board.Board, path string, now time.Time) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(b, file, f, now); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
