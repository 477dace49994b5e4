package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"rhp-backend/internal/config"

	"github.com/google/go-github/v66/github"
)

// GitHubStore commits images into a repository through the contents API.
type GitHubStore struct {
	client  *github.Client
	owner   string
	repo    string
	branch  string
	dir     string
	baseURL string
}

// NewGitHubStore creates a store for cfg. A nil httpClient uses http.DefaultClient.
func NewGitHubStore(cfg config.GitHubConfig, httpClient *http.Client) (*GitHubStore, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("storage/github: owner and repo are required")
	}

	client := github.NewClient(httpClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.APIURL != "" {
		apiURL, err := url.Parse(strings.TrimRight(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("storage/github: parse api url: %w", err)
		}
		client.BaseURL = apiURL
	}

	return &GitHubStore{
		client:  client,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		dir:     strings.Trim(cfg.Path, "/"),
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *GitHubStore) Name() string { return "GitHub" }

// Put creates name under the configured directory as a single commit.
// GitHub refuses to create a path that already exists.
func (s *GitHubStore) Put(ctx context.Context, name string, content []byte, _ string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Add product image: " + name),
		Content: content,
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}

	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path.Join(s.dir, name), opts)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Message != "" {
			return fmt.Errorf("storage/github: %s", ghErr.Message)
		}
		return fmt.Errorf("storage/github: create %s: %w", name, err)
	}
	return nil
}

func (s *GitHubStore) URL(name string) string {
	return s.baseURL + "/" + strings.TrimLeft(name, "/")
}
