// Package config loads the optional .cobolfront.toml file the CLI uses to
// seed source.Options before a compilation starts. Nothing under
// internal/cobolfront's core packages imports this package — only cmd/
// does — keeping the filesystem and the TOML decoder out of the compiler
// core itself (spec.md §1's "external collaborator" boundary).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/cobolfront/cobolfront/internal/cobolfront/source"
)

// File is the on-disk shape of .cobolfront.toml. Every field is optional;
// an absent field leaves the corresponding source.Options default in
// place. copybook_paths is decoded into Copybooks but has no
// source.Options counterpart, and Apply ignores it.
type File struct {
	SourceFormat string `toml:"source_format"` // "fixed", "free", or "auto"
	ColumnLength int    `toml:"column_length"`
	Encoding     string `toml:"encoding"`
	Copybooks    []string `toml:"copybook_paths"`
}

// Load decodes path into a File. A missing file is the caller's concern —
// Load wraps the toml decoder's error with %w, so a missing file still
// matches fs.ErrNotExist and the CLI can distinguish "no config file"
// (fine, use defaults) from "config file is malformed" (fatal).
func Load(path string) (File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return File{}, fmt.Errorf("config: cannot load %q: %w", path, err)
	}
	return f, nil
}

// Apply overlays the decoded file onto opts, leaving fields the file does
// not set untouched.
func (f File) Apply(opts *source.Options) error {
	switch f.SourceFormat {
	case "", "auto":
		// leave opts.Format as-is
	case "fixed":
		opts.Format = source.FormatFixed
	case "free":
		opts.Format = source.FormatFree
	default:
		return fmt.Errorf("config: unrecognized source_format %q", f.SourceFormat)
	}
	if f.ColumnLength > 0 {
		opts.ColumnLength = f.ColumnLength
	}
	if f.Encoding != "" {
		opts.Encoding = f.Encoding
	}
	return nil
}
