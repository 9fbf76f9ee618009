package terminalView

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"orgbackup/internal/color"
)

func escapeNonPrintable(input string) string {
	return strings.ReplaceAll(input, "\033", "\\033")
}

func newTestViewModel() *BackupCommandViewModel {
	vm := NewBackupCommandViewModel("acme", "/var/backups/acme", "acme-backups", "")
	vm.Listed.Add(5)
	vm.Skipped.Add(1)
	vm.Archived.Add(3)
	vm.Uploaded.Add(2)
	return vm
}

func TestSummaryView_Render(t *testing.T) {
	color.SetEnabled(false)
	vm := newTestViewModel()
	vm.AddFailure("c", vm.CloneFailures)

	var buf bytes.Buffer
	lineCount := NewSummaryView(vm, &buf).Render(80)

	expected := "acme\n" +
		"  -> /var/backups/acme\n" +
		"  -> s3://acme-backups\n" +
		"    5 repositories listed\n" +
		"    1 skipped (already archived)\n" +
		"    3 archived, 2 uploaded\n" +
		"    1 failed\n"
	assert.Equal(t, expected, buf.String(), escapeNonPrintable(buf.String()))
	assert.Equal(t, 7, lineCount)
}

func TestSummaryView_NarrowTerminal(t *testing.T) {
	color.SetEnabled(false)
	vm := newTestViewModel()

	var buf bytes.Buffer
	NewSummaryView(vm, &buf).Render(15)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "  -> ...ps/acme", lines[1])
	assert.Equal(t, "  -> s3://acme-", lines[2])
}

func TestAddFailure(t *testing.T) {
	vm := newTestViewModel()

	vm.AddFailure("a", vm.CredentialFailures)
	vm.AddFailure("b", vm.UploadFailures)
	vm.AddFailure("c", vm.UploadFailures)

	assert.Equal(t, 3, vm.Failed())
	assert.Equal(t, 2, vm.UploadFailures.Count())
	assert.Equal(t, "credentials", vm.ErrorViewModel.Failures[0].Stage)
	assert.Equal(t, "c", vm.ErrorViewModel.Failures[2].Repository)
}

func TestBackupCommandView_Render(t *testing.T) {
	color.SetEnabled(false)
	vm := NewBackupCommandViewModel("acme", "/tmp/repos", "acme-backups", "/var/log/orgbackup.log")
	vm.Listed.Add(2)
	vm.Archived.Add(1)
	vm.Uploaded.Add(1)
	vm.AddFailure("b", vm.CloneFailures)

	var buf bytes.Buffer
	since := func(time.Time) time.Duration { return 1500 * time.Millisecond }
	lineCount := NewBackupCommandView(vm, &buf, time.Now(), since).Render(80)

	output := buf.String()
	assert.True(t, strings.HasSuffix(output, "--- 1 errors ---\n  b (clone)\nSee log file:\n/var/log/orgbackup.log"+strings.Repeat(" ", 80-len("/var/log/orgbackup.log"))+"\nFinished in 1.5s\n"),
		escapeNonPrintable(output))
	assert.Equal(t, 7+4+1, lineCount)
}
