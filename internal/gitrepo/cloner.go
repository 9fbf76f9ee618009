package gitrepo

import (
	"context"
	"time"

	"github.com/juju/errors"

	"orgbackup/internal/color"
	"orgbackup/internal/ext"
	logger "orgbackup/internal/log"
	"orgbackup/internal/sh"
)

// CloneFailed marks errors from the version-control client, such as a non-zero exit.
const CloneFailed = errors.ConstError("clone failed")

const DefaultGitBinary = "git"

// GitCloner shells out to the git client. A zero Timeout waits for git to finish.
type GitCloner struct {
	Binary  string
	Timeout time.Duration
}

func (c GitCloner) Clone(ctx context.Context, url string, destination string) error {
	binary := ext.DefaultValue(c.Binary, DefaultGitBinary)
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	logger.Log.Debugf("Running %s clone %s %s", binary, color.FgCyan(url), color.FgCyan(destination))
	if _, err := sh.ExecuteCommand(ctx, "", binary, "clone", url, destination); err != nil {
		return errors.WithType(errors.Annotatef(err, "cloning %s", url), CloneFailed)
	}
	return nil
}
