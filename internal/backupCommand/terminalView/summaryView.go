package terminalView

import (
	"fmt"
	"io"
	"strings"

	"orgbackup/internal/color"
	"orgbackup/internal/ext"
	"orgbackup/internal/view"
)

// SummaryView renders the counts of a finished run
type SummaryView struct {
	viewModel *BackupCommandViewModel
	stdout    io.Writer
}

func NewSummaryView(vm *BackupCommandViewModel, stdout io.Writer) *SummaryView {
	return &SummaryView{
		viewModel: vm,
		stdout:    stdout,
	}
}

func (r *SummaryView) Render(width int) (lines int) {
	vm := r.viewModel
	count := func(c interface{ Count() int }) string {
		return color.FgMagenta(fmt.Sprintf("%d", c.Count()))
	}
	out := fmt.Sprintf(
		"%s\n  -> %s\n  -> s3://%s\n    %s repositories listed\n    %s skipped (already archived)\n    %s archived, %s uploaded\n    %s failed\n",
		color.FgCyan(unpad(view.TrimTextToWidth(max(width, 1), vm.Organization))),
		color.FgCyan(unpad(view.TruncateTextToWidth(max(width-5, 1), ext.ReplaceHomeDirWithTilde(vm.OutputDirectory)))),
		color.FgCyan(unpad(view.TrimTextToWidth(max(width-10, 1), vm.Bucket))),
		count(vm.Listed),
		count(vm.Skipped),
		count(vm.Archived),
		count(vm.Uploaded),
		colorFailed(vm.Failed()),
	)
	_, err := fmt.Fprint(r.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}

func colorFailed(failed int) string {
	if failed == 0 {
		return color.FgGreen("0")
	}
	return color.FgRed(fmt.Sprintf("%d", failed))
}

func unpad(s string) string {
	return strings.TrimRight(s, " ")
}
