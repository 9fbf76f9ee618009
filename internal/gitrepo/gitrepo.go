package gitrepo

import (
	"os"
	"path/filepath"
)

const ArchiveExtension = ".zip"

// Repository identifies one repository of an organization and where to clone it from.
type Repository struct {
	Name     string
	CloneURL string
}

// ArchivePath is where the repository's archive lives. Its existence marks the repository as fully backed up.
func (repo Repository) ArchivePath(outputDirectory string) string {
	return filepath.Join(outputDirectory, repo.ArchiveKey())
}

// ArchiveKey is the archive's file name, also used as the object key in the bucket.
func (repo Repository) ArchiveKey() string {
	return repo.Name + ArchiveExtension
}

func (repo Repository) CheckoutPath(outputDirectory string) string {
	return filepath.Join(outputDirectory, repo.Name)
}

func (repo Repository) IsArchived(outputDirectory string) (bool, error) {
	info, err := os.Stat(repo.ArchivePath(outputDirectory))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
