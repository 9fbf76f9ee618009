package gitrepo

import "context"

// Cloner fetches a complete copy of a remote repository into destination, which must not exist yet.
type Cloner interface {
	Clone(ctx context.Context, url string, destination string) error
}
