package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/juju/errors"

	logger "orgbackup/internal/log"
)

const acceptHeader = "application/vnd.github.v3+json"

func githubGet[T any](ctx context.Context, client *http.Client, token string, url string) (T, error) {
	var emptyResult T
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return emptyResult, err
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return emptyResult, err
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return emptyResult, errors.Errorf("GitHub API request on %s failed with status: %s", url, resp.Status)
	}

	var decodedResult T
	if err := json.NewDecoder(resp.Body).Decode(&decodedResult); err != nil {
		return emptyResult, errors.Annotatef(err, "decoding response from %s", url)
	}

	return decodedResult, nil
}
