// Package nand manages titles placed in the emulated Wii system memory:
// installing and removing packages, and locating and exporting save data.
package nand

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/internal/log"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
)

const packageName = "title.wad"

// Store is a NAND directory tree on fs
type Store struct {
	fs        afero.Fs
	root      string
	exportDir string
	now       func() time.Time
}

// NewStore creates a store rooted at root. Exported saves are written to exportDir.
func NewStore(fs afero.Fs, root, exportDir string) *Store {
	return &Store{fs: fs, root: root, exportDir: exportDir, now: time.Now}
}

// Root returns the NAND root directory
func (s *Store) Root() string {
	return s.root
}

// TitlePath returns <root>/title/<hi>/<lo>
func (s *Store) TitlePath(f *game.File) string {
	return filepath.Join(s.root, "title", filepath.FromSlash(f.TitleDir()))
}

// ContentPath is where an installed package lives
func (s *Store) ContentPath(f *game.File) string {
	return filepath.Join(s.TitlePath(f), "content")
}

// SaveFolder returns the save data directory of a Wii title
func (s *Store) SaveFolder(f *game.File) string {
	return filepath.Join(s.TitlePath(f), "data")
}

// IsInstalled reports whether the package f has been installed
func (s *Store) IsInstalled(f *game.File) bool {
	if !f.Platform.IsPackage() {
		return false
	}
	ok, err := afero.Exists(s.fs, filepath.Join(s.ContentPath(f), packageName))
	return err == nil && ok
}

// Install places the package in the NAND and creates its save folder
func (s *Store) Install(f *game.File) error {
	if !f.Platform.IsPackage() {
		return errors.NewFileError("not an installable package", f.Path, errors.InvalidOperation, nil)
	}
	content := s.ContentPath(f)
	if err := s.fs.MkdirAll(content, 0755); err != nil {
		return errors.NewFileError("cannot create title directory", content, errors.FileOperationFailed, err)
	}
	if err := s.fs.MkdirAll(s.SaveFolder(f), 0755); err != nil {
		return errors.NewFileError("cannot create save directory", s.SaveFolder(f), errors.FileOperationFailed, err)
	}
	if err := s.copyFile(f.Path, filepath.Join(content, packageName)); err != nil {
		return err
	}
	log.LogWithFields(log.F("title", f.TitleDir()), log.F("path", f.Path)).Info("Installed package")
	return nil
}

// Uninstall removes an installed package. Save data is kept.
func (s *Store) Uninstall(f *game.File) error {
	if !s.IsInstalled(f) {
		return errors.NewFileError("title is not installed", f.Path, errors.InvalidOperation, nil)
	}
	content := s.ContentPath(f)
	if err := s.fs.RemoveAll(content); err != nil {
		return errors.NewFileError("cannot remove title", content, errors.FileOperationFailed, err)
	}
	log.LogWithFields(log.F("title", f.TitleDir())).Info("Uninstalled package")
	return nil
}

// ExportSave zips the title's save folder into the export directory and
// returns the archive path.
func (s *Store) ExportSave(f *game.File) (string, error) {
	if !f.Platform.HasWiiSave() {
		return "", errors.NewFileError("title has no Wii save", f.Path, errors.InvalidOperation, nil)
	}
	src := s.SaveFolder(f)
	if ok, err := afero.DirExists(s.fs, src); err != nil || !ok {
		return "", errors.NewFileError("no save data", src, errors.FileNotFound, err)
	}
	if err := s.fs.MkdirAll(s.exportDir, 0755); err != nil {
		return "", errors.NewFileError("cannot create export directory", s.exportDir, errors.FileOperationFailed, err)
	}

	name := f.GameID
	if name == "" {
		name = strings.ReplaceAll(f.TitleDir(), "/", "-")
	}
	dst := filepath.Join(s.exportDir, fmt.Sprintf("%s-%s.zip", name, s.now().Format("20060102-150405")))

	out, err := s.fs.Create(dst)
	if err != nil {
		return "", errors.NewFileError("cannot create archive", dst, errors.FileOperationFailed, err)
	}
	zw := zip.NewWriter(out)

	walkErr := afero.Walk(s.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := s.fs.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})

	closeErr := zw.Close()
	if err := out.Close(); closeErr == nil {
		closeErr = err
	}
	if walkErr == nil {
		walkErr = closeErr
	}
	if walkErr != nil {
		_ = s.fs.Remove(dst)
		return "", errors.NewFileError("cannot export save", dst, errors.FileOperationFailed, walkErr)
	}

	log.LogWithFields(log.F("title", f.TitleDir()), log.F("archive", dst)).Info("Exported save")
	return dst, nil
}

func (s *Store) copyFile(src, dst string) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return errors.NewFileError("cannot open package", src, errors.FileAccessDenied, err)
	}
	defer in.Close()

	tmp := dst + ".part"
	out, err := s.fs.Create(tmp)
	if err != nil {
		return errors.NewFileError("cannot write package", tmp, errors.FileOperationFailed, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = s.fs.Remove(tmp)
		return errors.NewFileError("cannot copy package", src, errors.FileOperationFailed, err)
	}
	if err := out.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.NewFileError("cannot write package", tmp, errors.FileOperationFailed, err)
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		return errors.NewFileError("cannot place package", dst, errors.FileOperationFailed, err)
	}
	return nil
}
