package cmd

import (
	"os"
	"path/filepath"
)

// osFileProvider resolves paths against the filesystem, trying path
// verbatim and then relative to baseDir — the directory the entry-point
// file lives in, so a bare copybook name like "CUSTREC" resolves next to
// the program that COPYs it without the caller needing to pass absolute
// paths everywhere.
type osFileProvider struct {
	baseDir string
}

func newOSFileProvider(entryPoint string) osFileProvider {
	return osFileProvider{baseDir: filepath.Dir(entryPoint)}
}

func (p osFileProvider) Open(path string) ([]byte, error) {
	if content, err := os.ReadFile(path); err == nil {
		return content, nil
	}
	return os.ReadFile(filepath.Join(p.baseDir, path))
}

// discoverWorkspaceFiles enumerates every *.cob, *.cbl and *.cpy file under root,
// used by `check` when invoked against a directory rather than a single
// file.
func discoverWorkspaceFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".cob", ".cbl", ".cpy":
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
