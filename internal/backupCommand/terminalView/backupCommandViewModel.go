package terminalView

import (
	"orgbackup/internal/counter"
	"orgbackup/internal/view"
)

// Failure stages, as shown next to a failed repository.
const (
	StageClone       = "clone"
	StageArchive     = "archive"
	StageCredentials = "credentials"
	StageUpload      = "upload"
)

type BackupCommandViewModel struct {
	Organization    string
	OutputDirectory string
	Bucket          string

	Listed   *counter.Counter
	Skipped  *counter.Counter
	Archived *counter.Counter
	Uploaded *counter.Counter

	CloneFailures      *counter.Counter
	ArchiveFailures    *counter.Counter
	CredentialFailures *counter.Counter
	UploadFailures     *counter.Counter

	ErrorViewModel *view.ErrorViewModel
}

func NewBackupCommandViewModel(organization, outputDirectory, bucket, logFilePath string) *BackupCommandViewModel {
	return &BackupCommandViewModel{
		Organization:       organization,
		OutputDirectory:    outputDirectory,
		Bucket:             bucket,
		Listed:             counter.NewCounter("listed"),
		Skipped:            counter.NewCounter("skipped"),
		Archived:           counter.NewCounter("archived"),
		Uploaded:           counter.NewCounter("uploaded"),
		CloneFailures:      counter.NewCounter(StageClone),
		ArchiveFailures:    counter.NewCounter(StageArchive),
		CredentialFailures: counter.NewCounter(StageCredentials),
		UploadFailures:     counter.NewCounter(StageUpload),
		ErrorViewModel:     view.NewErrorViewModel(logFilePath),
	}
}

// AddFailure counts a failed repository against the counter of the stage it failed in.
func (vm *BackupCommandViewModel) AddFailure(repository string, stage *counter.Counter) {
	stage.Inc()
	vm.ErrorViewModel.Add(repository, stage.Name())
}

func (vm *BackupCommandViewModel) Failed() int {
	return vm.CloneFailures.Count() + vm.ArchiveFailures.Count() + vm.CredentialFailures.Count() + vm.UploadFailures.Count()
}
