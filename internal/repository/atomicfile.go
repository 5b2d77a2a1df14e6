package repository

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes data to path by first writing it to a sibling
// temporary file and renaming it into place, so a crash or concurrent reader
// never observes a partially written file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
