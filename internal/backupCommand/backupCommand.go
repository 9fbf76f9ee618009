package backupCommand

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"orgbackup/internal/appConfig"
	"orgbackup/internal/archive"
	"orgbackup/internal/backup"
	"orgbackup/internal/backupCommand/terminalView"
	"orgbackup/internal/color"
	"orgbackup/internal/gitrepo"
	logger "orgbackup/internal/log"
	"orgbackup/internal/metrics"
	"orgbackup/internal/upload"
)

type Lister interface {
	ListOrganizationRepositories(ctx context.Context, org string) ([]gitrepo.Repository, error)
}

type Pipeline interface {
	IsArchived(repo gitrepo.Repository) (bool, error)
	Archive(ctx context.Context, repo gitrepo.Repository) (backup.Artifact, error)
}

type Dependencies struct {
	Lister   Lister
	Pipeline Pipeline
	Uploader upload.Uploader
	Metrics  *metrics.Recorder
}

type Summary struct {
	*terminalView.BackupCommandViewModel
	RunID   string
	Elapsed time.Duration
	// Stopped is set when the run was cancelled before every repository was handled.
	Stopped bool
}

// ExecuteBackupCommand backs up every repository of the configured organization, one after the other.
// Only a failure to set up the output directory or to list the organization is returned; per-repository
// failures are logged, counted in the summary and do not stop the batch.
func ExecuteBackupCommand(ctx context.Context, config *appConfig.AppConfig, deps Dependencies) (*Summary, error) {
	startTime := time.Now()
	summary := &Summary{
		BackupCommandViewModel: terminalView.NewBackupCommandViewModel(config.Organization, config.OutputDirectory, config.Bucket, logger.GetLogFilePath(config.LogFile)),
		RunID:                  uuid.NewString(),
	}
	logger.SetRunID(summary.RunID)
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	defer func() {
		summary.Elapsed = time.Since(startTime)
		recorder.RunFinished(time.Now())
		writeMetrics(recorder, config.MetricsFile)
	}()

	if err := os.MkdirAll(config.OutputDirectory, os.ModePerm); err != nil {
		return summary, errors.Annotatef(err, "creating output directory %s", config.OutputDirectory)
	}

	logger.Log.Infof("Fetching repositories from the organization: %s", color.FgCyan(config.Organization))
	listStart := time.Now()
	repos, err := deps.Lister.ListOrganizationRepositories(ctx, config.Organization)
	recorder.ObserveStage(metrics.StageList, time.Since(listStart))
	if err != nil {
		logger.Log.Errorf("Failed to fetch repositories: %v", err)
		return summary, err
	}
	summary.Listed.Add(len(repos))
	if len(repos) == 0 {
		logger.Log.Infof("No repositories found for the organization: %s", color.FgCyan(config.Organization))
		return summary, nil
	}

	for i, repo := range repos {
		if ctx.Err() != nil {
			logger.Log.Warnf("Stopped after %d of %d repositories, before %s: %v",
				i, len(repos), color.FgYellow(repo.Name), ctx.Err())
			summary.Stopped = true
			return summary, nil
		}
		backupRepository(ctx, config, deps, recorder, summary, repo)
	}

	logger.Log.Infof("All repositories have been processed. Archives are in %s (%d archived, %d uploaded, %d skipped, %d failed).",
		color.FgCyan(config.OutputDirectory), summary.Archived.Count(), summary.Uploaded.Count(), summary.Skipped.Count(), summary.Failed())
	return summary, nil
}

func backupRepository(ctx context.Context, config *appConfig.AppConfig, deps Dependencies, recorder *metrics.Recorder, summary *Summary, repo gitrepo.Repository) {
	archived, err := deps.Pipeline.IsArchived(repo)
	if err != nil {
		logger.Log.Errorf("An error occurred while processing %s: %v", color.FgRed(repo.Name), err)
		summary.AddFailure(repo.Name, summary.ArchiveFailures)
		recorder.RepositoryOutcome(metrics.OutcomeArchiveFailed)
		return
	}
	if archived {
		skip(recorder, summary, repo)
		return
	}

	archiveStart := time.Now()
	artifact, err := deps.Pipeline.Archive(ctx, repo)
	recorder.ObserveStage(metrics.StageArchive, time.Since(archiveStart))
	switch {
	case err == nil:
	case errors.Is(err, errors.AlreadyExists):
		// Archived between the check and the clone
		skip(recorder, summary, repo)
		return
	case errors.Is(err, gitrepo.CloneFailed):
		logger.Log.Errorf("Failed to clone repository %s: %v", color.FgRed(repo.Name), err)
		summary.AddFailure(repo.Name, summary.CloneFailures)
		recorder.RepositoryOutcome(metrics.OutcomeCloneFailed)
		return
	case errors.Is(err, archive.ArchiveFailed):
		logger.Log.Errorf("Failed to zip repository %s: %v", color.FgRed(repo.Name), err)
		summary.AddFailure(repo.Name, summary.ArchiveFailures)
		recorder.RepositoryOutcome(metrics.OutcomeArchiveFailed)
		return
	default:
		logger.Log.Errorf("An error occurred while processing %s: %v", color.FgRed(repo.Name), err)
		summary.AddFailure(repo.Name, summary.ArchiveFailures)
		recorder.RepositoryOutcome(metrics.OutcomeArchiveFailed)
		return
	}
	summary.Archived.Inc()
	recorder.ArchiveWritten(artifact.Bytes)

	key := repo.ArchiveKey()
	logger.Log.Infof("Uploading %s to S3 bucket %s...", color.FgCyan(artifact.LocalPath), color.FgCyan(config.Bucket))
	uploadStart := time.Now()
	err = deps.Uploader.Upload(ctx, artifact.LocalPath, config.Bucket, key)
	recorder.ObserveStage(metrics.StageUpload, time.Since(uploadStart))
	switch {
	case err == nil:
	case errors.Is(err, upload.CredentialsMissing):
		logger.Log.Errorf("Failed to upload %s to S3, no usable AWS credentials: %v", color.FgRed(key), err)
		summary.AddFailure(repo.Name, summary.CredentialFailures)
		recorder.RepositoryOutcome(metrics.OutcomeCredentialsMissing)
		return
	default:
		logger.Log.Errorf("Failed to upload %s to S3: %v", color.FgRed(key), err)
		summary.AddFailure(repo.Name, summary.UploadFailures)
		recorder.RepositoryOutcome(metrics.OutcomeUploadFailed)
		return
	}
	logger.Log.Infof("Successfully uploaded %s to S3.", color.FgGreen(key))
	summary.Uploaded.Inc()
	recorder.RepositoryOutcome(metrics.OutcomeUploaded)

	if config.DeleteArchiveAfterUpload {
		if err := os.Remove(artifact.LocalPath); err != nil {
			logger.Log.Warnf("Failed to delete uploaded archive %s: %v", color.FgYellow(artifact.LocalPath), err)
		} else {
			logger.Log.Debugf("Deleted uploaded archive %s", artifact.LocalPath)
		}
	}
}

func skip(recorder *metrics.Recorder, summary *Summary, repo gitrepo.Repository) {
	logger.Log.Infof("Repository %s is already zipped. Skipping download and zip...", color.FgMagenta(repo.Name))
	summary.Skipped.Inc()
	recorder.RepositoryOutcome(metrics.OutcomeSkipped)
}

func writeMetrics(recorder *metrics.Recorder, metricsFile string) {
	if metricsFile == "" {
		return
	}
	if err := recorder.WriteTextfile(metricsFile); err != nil {
		logger.Log.Warnf("Failed to write metrics to %s: %v", color.FgYellow(metricsFile), err)
		return
	}
	logger.Log.Debugf("Metrics written to %s", metricsFile)
}
