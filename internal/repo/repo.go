// Repository publisher: each PDF is committed to a deterministic path.
// The file tree is listed once per run and a path already present is
// never overwritten, so re-runs leave history untouched.

package repo

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/davidread/jobadscrape/internal/dedup"
	"github.com/davidread/jobadscrape/internal/errs"

	"github.com/google/go-github/v62/github"
)

// FileStore is the version-control capability the publisher needs.
// Put writes content at path and commits it with the given message.
type FileStore interface {
	Paths(ctx context.Context) ([]string, error)
	Put(ctx context.Context, path string, content []byte, message string) error
}

// Publisher commits PDFs to a FileStore, skipping paths that already
// exist.
type Publisher struct {
	store FileStore
	index *dedup.Index
}

// NewPublisher lists the repository tree and builds the path index.
func NewPublisher(ctx context.Context, store FileStore) (*Publisher, error) {
	paths, err := store.Paths(ctx)
	if err != nil {
		return nil, err
	}

	index := dedup.NewIndex()
	index.Add(paths...)

	return &Publisher{store: store, index: index}, nil
}

// HasPath reports whether a file already exists at this path.
func (p *Publisher) HasPath(filePath string) bool {
	return p.index.Seen(filePath)
}

// Publish commits the PDF unless the path is already taken. It reports
// whether a file was actually written.
func (p *Publisher) Publish(ctx context.Context, filePath string, pdf []byte) (bool, error) {
	if p.index.Seen(filePath) {
		return false, nil
	}

	msg := fmt.Sprintf("Add job listing %s", path.Base(filePath))
	if err := p.store.Put(ctx, filePath, pdf, msg); err != nil {
		return false, err
	}
	p.index.Add(filePath)
	return true, nil
}

// GitHubStore implements FileStore against the GitHub contents API.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

func NewGitHubStore(token, owner, repo, branch string) *GitHubStore {
	return &GitHubStore{
		client: github.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
		branch: branch,
	}
}

// Paths lists every blob in the branch, one recursive tree call.
func (g *GitHubStore) Paths(ctx context.Context) ([]string, error) {
	tree, _, err := g.client.Git.GetTree(ctx, g.owner, g.repo, g.branch, true)
	if err != nil {
		return nil, classify("list tree", err)
	}

	var paths []string
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			paths = append(paths, entry.GetPath())
		}
	}
	return paths, nil
}

// Put creates the file through the contents API, which commits and
// pushes in one call. The client base64-encodes the content itself.
func (g *GitHubStore) Put(ctx context.Context, filePath string, content []byte, message string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(g.branch),
	}
	_, _, err := g.client.Repositories.CreateFile(ctx, g.owner, g.repo, filePath, opts)
	if err != nil {
		return classify("create file "+filePath, err)
	}
	return nil
}

func classify(op string, err error) error {
	var gerr *github.ErrorResponse
	if errors.As(err, &gerr) && gerr.Response != nil {
		switch gerr.Response.StatusCode {
		case 401, 403:
			return fmt.Errorf("%w: github %s: %v", errs.ErrAuth, op, err)
		default:
			return fmt.Errorf("%w: github %s: %v", errs.ErrRemote, op, err)
		}
	}
	return fmt.Errorf("%w: github %s: %v", errs.ErrNetwork, op, err)
}
