package terminalView

import (
	"io"
	"time"

	"orgbackup/internal/view"
)

type BackupCommandView struct {
	compositeView *view.CompositeView
}

func NewBackupCommandView(vm *BackupCommandViewModel, out io.Writer, startTime time.Time, since func(time.Time) time.Duration) *BackupCommandView {
	compositeView := view.NewCompositeView(make([]view.View, 0))
	compositeView.AddView(NewSummaryView(vm, out))

	compositeView.AddFooter(view.NewErrorView(vm.ErrorViewModel, out))
	compositeView.AddFooter(view.NewTimeElapsedView(startTime, out, since))

	return &BackupCommandView{
		compositeView: compositeView,
	}
}

func (c BackupCommandView) Render(width int) (lines int) {
	return c.compositeView.Render(width)
}
