package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/juju/errors"
	"github.com/samber/lo"

	"orgbackup/internal/color"
	"orgbackup/internal/gitrepo"
	logger "orgbackup/internal/log"
)

// ListingFailed marks any failure to obtain the complete repository list. It is fatal to a run.
const ListingFailed = errors.ConstError("listing failed")

const (
	DefaultBaseURL  = "https://api.github.com"
	DefaultPageSize = 100
	MaxPageSize     = 100
)

type ListOptions struct {
	Page    int `url:"page"`
	PerPage int `url:"per_page"`
}

type RepositoryMetadata struct {
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
}

/* RepositoryAPI manages access to the GitHub REST API.
It sits at the boundary to external data; all methods are synchronous.
*/

type RepositoryAPI struct {
	baseURL  string
	token    string
	pageSize int
	client   *http.Client
}

// NewRepositoryAPI builds a client for baseURL. An empty token sends unauthenticated requests,
// a zero pageSize uses DefaultPageSize and a nil client uses http.DefaultClient.
func NewRepositoryAPI(baseURL, token string, pageSize int, client *http.Client) *RepositoryAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RepositoryAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		pageSize: pageSize,
		client:   client,
	}
}

func (api *RepositoryAPI) organizationReposURL(org string, opts ListOptions) (string, error) {
	values, err := query.Values(opts)
	if err != nil {
		return "", errors.Annotate(err, "failed to generate URL query from list options")
	}
	return fmt.Sprintf("%s/orgs/%s/repos?%s", api.baseURL, url.PathEscape(org), values.Encode()), nil
}

// ListOrganizationRepositories pages through the organization's repositories until an empty page.
// An organization without repositories yields an empty slice and no error.
func (api *RepositoryAPI) ListOrganizationRepositories(ctx context.Context, org string) ([]gitrepo.Repository, error) {
	var all []RepositoryMetadata
	for page := 1; ; page++ {
		pageURL, err := api.organizationReposURL(org, ListOptions{Page: page, PerPage: api.pageSize})
		if err != nil {
			return nil, errors.WithType(err, ListingFailed)
		}
		repos, err := githubGet[[]RepositoryMetadata](ctx, api.client, api.token, pageURL)
		if err != nil {
			return nil, errors.WithType(errors.Annotatef(err, "fetching page %d of %s", page, org), ListingFailed)
		}
		logger.Log.Debugf("Fetched page %d of %s: %d repositories", page, color.FgCyan(org), len(repos))
		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
	}

	valid := lo.Filter(all, func(repo RepositoryMetadata, _ int) bool {
		if repo.Name == "" || repo.CloneURL == "" {
			logger.Log.Warnf("Ignoring repository record without name or clone_url: %+v", repo)
			return false
		}
		if !isPlainName(repo.Name) {
			logger.Log.Warnf("Ignoring repository record with unsafe name %q", repo.Name)
			return false
		}
		return true
	})
	unique := lo.UniqBy(valid, func(repo RepositoryMetadata) string {
		return repo.Name
	})
	if dropped := len(valid) - len(unique); dropped > 0 {
		logger.Log.Debugf("Dropped %d duplicate repositories returned across pages", dropped)
	}

	return lo.Map(unique, func(repo RepositoryMetadata, _ int) gitrepo.Repository {
		return gitrepo.Repository{Name: repo.Name, CloneURL: repo.CloneURL}
	}), nil
}

// isPlainName reports whether name is usable as a single file name inside the output directory.
func isPlainName(name string) bool {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
