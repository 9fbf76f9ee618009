// Package backup turns one repository into a local archive: clone, zip, remove the checkout.
package backup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"

	"orgbackup/internal/archive"
	"orgbackup/internal/color"
	"orgbackup/internal/gitrepo"
	logger "orgbackup/internal/log"
)

// Artifact is a finished archive on local disk.
type Artifact struct {
	RepositoryName string
	LocalPath      string
	Files          int
	Bytes          int64
}

type Pipeline struct {
	OutputDirectory string
	Cloner          gitrepo.Cloner
	Archiver        archive.Archiver
}

// IsArchived reports whether repo already has an archive in the output directory.
func (p *Pipeline) IsArchived(repo gitrepo.Repository) (bool, error) {
	archived, err := repo.IsArchived(p.OutputDirectory)
	if err != nil {
		return false, errors.WithType(errors.Annotatef(err, "checking archive of %s", repo.Name), archive.ArchiveFailed)
	}
	return archived, nil
}

// Archive clones repo and packs it into <OutputDirectory>/<name>.zip.
// An existing archive short-circuits with an error satisfying errors.Is(err, errors.AlreadyExists),
// before anything is cloned or written. The checkout directory never outlives this call.
func (p *Pipeline) Archive(ctx context.Context, repo gitrepo.Repository) (Artifact, error) {
	checkoutPath := repo.CheckoutPath(p.OutputDirectory)
	// The checkout gets removed recursively, so it must be a direct child of the output directory.
	if filepath.Dir(checkoutPath) != filepath.Clean(p.OutputDirectory) || filepath.Base(checkoutPath) != repo.Name {
		return Artifact{}, errors.WithType(errors.NotValidf("repository name %q", repo.Name), archive.ArchiveFailed)
	}
	archivePath := repo.ArchivePath(p.OutputDirectory)
	archived, err := p.IsArchived(repo)
	if err != nil {
		return Artifact{}, err
	}
	if archived {
		return Artifact{}, errors.AlreadyExistsf("archive %s", archivePath)
	}

	// A previous run may have died between clone and cleanup.
	if removed, err := removeCheckout(checkoutPath); err != nil {
		return Artifact{}, errors.WithType(errors.Annotatef(err, "removing stale checkout %s", checkoutPath), archive.ArchiveFailed)
	} else if removed {
		logger.Log.Warnf("Removed stale checkout %s left by an earlier run", color.FgYellow(checkoutPath))
	}
	defer func() {
		removed, err := removeCheckout(checkoutPath)
		if err != nil {
			logger.Log.Errorf("Failed to delete the cloned directory for %s: %v", color.FgRed(repo.Name), err)
			return
		}
		if removed {
			logger.Log.Infof("Deleted the cloned directory for %s.", color.FgMagenta(repo.Name))
		}
	}()

	logger.Log.Infof("Cloning repository: %s", color.FgMagenta(repo.Name))
	if err := p.Cloner.Clone(ctx, repo.CloneURL, checkoutPath); err != nil {
		return Artifact{}, withType(err, gitrepo.CloneFailed)
	}
	logger.Log.Infof("Repository %s cloned successfully.", color.FgMagenta(repo.Name))

	result, err := p.Archiver.Create(archivePath, checkoutPath)
	if err != nil {
		return Artifact{}, withType(err, archive.ArchiveFailed)
	}
	logger.Log.Infof("Repository %s has been zipped to %s (%d files, %s).",
		color.FgMagenta(repo.Name), color.FgCyan(result.Path), result.Files, humanize.Bytes(uint64(result.Bytes)))

	return Artifact{
		RepositoryName: repo.Name,
		LocalPath:      result.Path,
		Files:          result.Files,
		Bytes:          result.Bytes,
	}, nil
}

func removeCheckout(path string) (bool, error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, err
	}
	return true, nil
}

func withType(err error, errType errors.ConstError) error {
	if errors.Is(err, errType) {
		return err
	}
	return errors.WithType(err, errType)
}
