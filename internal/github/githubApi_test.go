package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgbackup/internal/gitrepo"
)

// fakeGitHub serves pages[i] for page i+1 and an empty array afterwards,
// unless a status is configured for that page.
type fakeGitHub struct {
	t        *testing.T
	mu       sync.Mutex
	org      string
	pages    [][]RepositoryMetadata
	statuses map[int]int
	requests []*http.Request
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()
	if r.URL.Path != fmt.Sprintf("/orgs/%s/repos", f.org) {
		http.NotFound(w, r)
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, "bad page", http.StatusBadRequest)
		return
	}

	if status, ok := f.statuses[page]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
		return
	}
	body := []RepositoryMetadata{}
	if page >= 1 && page <= len(f.pages) {
		body = f.pages[page-1]
	}
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(f.t, json.NewEncoder(w).Encode(body))
}

func newFakeGitHub(t *testing.T, org string, pages ...[]RepositoryMetadata) (*fakeGitHub, *httptest.Server) {
	fake := &fakeGitHub{t: t, org: org, pages: pages, statuses: map[int]int{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func repo(name string) RepositoryMetadata {
	return RepositoryMetadata{Name: name, CloneURL: "https://x/" + name + ".git"}
}

func TestListOrganizationRepositories_SinglePage(t *testing.T) {
	fake, server := newFakeGitHub(t, "acme", []RepositoryMetadata{repo("a"), repo("b")})
	api := NewRepositoryAPI(server.URL, "", 0, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []gitrepo.Repository{
		{Name: "a", CloneURL: "https://x/a.git"},
		{Name: "b", CloneURL: "https://x/b.git"},
	}, repos)

	require.Len(t, fake.requests, 2, "stops after the first empty page")
	assert.Equal(t, "1", fake.requests[0].URL.Query().Get("page"))
	assert.Equal(t, "100", fake.requests[0].URL.Query().Get("per_page"))
	assert.Equal(t, "2", fake.requests[1].URL.Query().Get("page"))
	assert.Equal(t, acceptHeader, fake.requests[0].Header.Get("Accept"))
	assert.Empty(t, fake.requests[0].Header.Get("Authorization"))
}

func TestListOrganizationRepositories_MultiplePagesInOrder(t *testing.T) {
	fake, server := newFakeGitHub(t, "acme",
		[]RepositoryMetadata{repo("c"), repo("a")},
		[]RepositoryMetadata{repo("b"), repo("e")},
		[]RepositoryMetadata{repo("d")},
	)
	api := NewRepositoryAPI(server.URL, "", 2, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)

	var names []string
	for _, r := range repos {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "b", "e", "d"}, names)
	assert.Len(t, fake.requests, 4)
	assert.Equal(t, "2", fake.requests[0].URL.Query().Get("per_page"))
}

func TestListOrganizationRepositories_DropsDuplicates(t *testing.T) {
	_, server := newFakeGitHub(t, "acme",
		[]RepositoryMetadata{repo("a"), repo("b")},
		[]RepositoryMetadata{repo("b"), repo("c")},
	)
	api := NewRepositoryAPI(server.URL, "", 2, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, "a", repos[0].Name)
	assert.Equal(t, "b", repos[1].Name)
	assert.Equal(t, "c", repos[2].Name)
}

func TestListOrganizationRepositories_IgnoresIncompleteRecords(t *testing.T) {
	_, server := newFakeGitHub(t, "acme",
		[]RepositoryMetadata{repo("a"), {Name: "no-url"}, {CloneURL: "https://x/anon.git"}},
	)
	api := NewRepositoryAPI(server.URL, "", 0, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []gitrepo.Repository{{Name: "a", CloneURL: "https://x/a.git"}}, repos)
}

func TestListOrganizationRepositories_IgnoresUnsafeNames(t *testing.T) {
	_, server := newFakeGitHub(t, "acme",
		[]RepositoryMetadata{repo("."), repo(".."), repo("x/../.."), repo(`..\evil`), repo("a"), repo(".github")},
	)
	api := NewRepositoryAPI(server.URL, "", 0, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []gitrepo.Repository{
		{Name: "a", CloneURL: "https://x/a.git"},
		{Name: ".github", CloneURL: "https://x/.github.git"},
	}, repos)
}

func TestListOrganizationRepositories_Empty(t *testing.T) {
	_, server := newFakeGitHub(t, "ghost")
	api := NewRepositoryAPI(server.URL, "", 0, server.Client())

	repos, err := api.ListOrganizationRepositories(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListOrganizationRepositories_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		failOnPage int
	}{
		{name: "first page", failOnPage: 1},
		{name: "later page", failOnPage: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, server := newFakeGitHub(t, "acme",
				[]RepositoryMetadata{repo("a")},
				[]RepositoryMetadata{repo("b")},
			)
			fake.statuses[tt.failOnPage] = http.StatusForbidden
			api := NewRepositoryAPI(server.URL, "", 1, server.Client())

			repos, err := api.ListOrganizationRepositories(context.Background(), "acme")
			require.Error(t, err)
			assert.Nil(t, repos, "no partial results")
			assert.True(t, errors.Is(err, ListingFailed))
			assert.Contains(t, err.Error(), "403 Forbidden")
			assert.Len(t, fake.requests, tt.failOnPage)
		})
	}
}

func TestListOrganizationRepositories_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()
	api := NewRepositoryAPI(server.URL, "", 0, server.Client())

	_, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ListingFailed))
}

func TestListOrganizationRepositories_Token(t *testing.T) {
	fake, server := newFakeGitHub(t, "acme")
	api := NewRepositoryAPI(server.URL+"/", "s3cret", 0, server.Client())

	_, err := api.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "Bearer s3cret", fake.requests[0].Header.Get("Authorization"))
}
