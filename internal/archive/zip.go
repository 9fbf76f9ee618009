// Package archive packs a cloned working tree into a single compressed file.
package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/klauspost/compress/zip"

	logger "orgbackup/internal/log"
)

// ArchiveFailed marks filesystem or compression errors while building an archive.
const ArchiveFailed = errors.ConstError("archive failed")

const tempSuffix = ".tmp"

type Result struct {
	Path  string
	Files int
	Bytes int64
}

type Archiver interface {
	// Create packs everything below sourceDir into destPath. Entry names are relative to sourceDir.
	Create(destPath, sourceDir string) (Result, error)
}

// ZipArchiver writes deflate-compressed zip files.
// The archive is built next to destPath and renamed into place once complete,
// so destPath only ever exists as a finished archive.
type ZipArchiver struct{}

func (ZipArchiver) Create(destPath, sourceDir string) (result Result, err error) {
	defer func() {
		if err != nil {
			err = errors.WithType(err, ArchiveFailed)
		}
	}()

	info, err := os.Stat(sourceDir)
	if err != nil {
		return Result{}, errors.Annotatef(err, "reading source %s", sourceDir)
	}
	if !info.IsDir() {
		return Result{}, errors.Errorf("source %s is not a directory", sourceDir)
	}

	tempPath := destPath + tempSuffix
	file, err := os.Create(tempPath)
	if err != nil {
		return Result{}, errors.Annotatef(err, "creating %s", tempPath)
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Log.Warnf("Failed to remove partial archive %s: %v", tempPath, removeErr)
			}
		}
	}()

	zipWriter := zip.NewWriter(file)
	files, err := addTree(zipWriter, sourceDir)
	if err != nil {
		return Result{}, errors.Annotatef(err, "packing %s", sourceDir)
	}
	if err = zipWriter.Close(); err != nil {
		return Result{}, errors.Annotatef(err, "finishing %s", tempPath)
	}
	if err = file.Close(); err != nil {
		return Result{}, errors.Annotatef(err, "closing %s", tempPath)
	}
	if err = os.Rename(tempPath, destPath); err != nil {
		return Result{}, errors.Annotatef(err, "moving archive to %s", destPath)
	}

	stat, err := os.Stat(destPath)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	return Result{Path: destPath, Files: files, Bytes: stat.Size()}, nil
}

func addTree(zipWriter *zip.Writer, sourceDir string) (int, error) {
	files := 0
	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			header.Name += "/"
			header.Method = zip.Store
			_, err = zipWriter.CreateHeader(header)
			return err
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			header.Method = zip.Store
			w, err := zipWriter.CreateHeader(header)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, target)
			files++
			return err
		case info.Mode().IsRegular():
			header.Method = zip.Deflate
			w, err := zipWriter.CreateHeader(header)
			if err != nil {
				return err
			}
			if err := copyFile(w, path); err != nil {
				return err
			}
			files++
			return nil
		default:
			logger.Log.Debugf("Skipping special file %s", path)
			return nil
		}
	})
	return files, err
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
