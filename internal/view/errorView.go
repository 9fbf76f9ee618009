package view

import (
	"fmt"
	"io"
	"strings"

	"orgbackup/internal/color"
	"orgbackup/internal/ext"
)

// Failure is one repository that did not make it into the bucket.
type Failure struct {
	Repository string
	Stage      string
}

type ErrorViewModel struct {
	Failures    []Failure
	logFilePath string
}

func NewErrorViewModel(logFilePath string) *ErrorViewModel {
	return &ErrorViewModel{logFilePath: logFilePath}
}

func (vm *ErrorViewModel) Add(repository, stage string) {
	vm.Failures = append(vm.Failures, Failure{Repository: repository, Stage: stage})
}

type ErrorView struct {
	viewModel *ErrorViewModel
	stdout    io.Writer
}

func NewErrorView(vm *ErrorViewModel, stdout io.Writer) *ErrorView {
	return &ErrorView{
		viewModel: vm,
		stdout:    stdout,
	}
}

// Render lists failed repositories, one per line, and where to find the details.
func (v ErrorView) Render(width int) int {
	if len(v.viewModel.Failures) == 0 {
		return 0
	}
	var out strings.Builder
	out.WriteString(fmt.Sprintf("--- %s errors ---\n", color.FgRed(fmt.Sprintf("%d", len(v.viewModel.Failures)))))
	for _, failure := range v.viewModel.Failures {
		line := TrimTextToWidth(max(width-2, 1), fmt.Sprintf("%s (%s)", failure.Repository, failure.Stage))
		out.WriteString("  " + strings.TrimRight(line, " ") + "\n")
	}
	if v.viewModel.logFilePath != "" {
		out.WriteString(fmt.Sprintf("See log file:\n%s\n",
			color.FgMagenta(TruncateTextToWidth(width, ext.ReplaceHomeDirWithTilde(v.viewModel.logFilePath)))))
	}

	_, err := fmt.Fprint(v.stdout, out.String())
	if err != nil {
		return 0
	}
	return strings.Count(out.String(), "\n")
}
