package githost

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// ErrRepoNotFound indicates a repository lookup against a name that was
// never created.
var ErrRepoNotFound = errors.New("repository not found")

// ErrRefNotFound indicates a branch that does not exist yet, including the
// default branch of an empty repository.
var ErrRefNotFound = errors.New("ref not found")

// GitHubHost implements Host against the GitHub REST API.
type GitHubHost struct {
	client *github.Client
	owner  string
}

// NewGitHubHost creates a Host authenticated with a personal access token.
func NewGitHubHost(token, owner string) *GitHubHost {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubHost{
		client: github.NewClient(tc),
		owner:  owner,
	}
}

// GetRepo looks up a repository under the configured owner.
func (h *GitHubHost) GetRepo(ctx context.Context, name string) (*Repo, error) {
	repo, resp, err := h.client.Repositories.Get(ctx, h.owner, name)
	if err != nil {
		if statusIs(resp, http.StatusNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", h.owner, name, ErrRepoNotFound)
		}
		return nil, fmt.Errorf("get repository %s: %w", name, err)
	}

	return h.toRepo(repo), nil
}

// CreateRepo creates a public, auto-initialized repository for the
// authenticated user.
func (h *GitHubHost) CreateRepo(ctx context.Context, name, description string) (*Repo, error) {
	newRepo := &github.Repository{
		Name:     github.String(name),
		Private:  github.Bool(false),
		AutoInit: github.Bool(true),
	}
	if description != "" {
		newRepo.Description = github.String(description)
	}

	repo, _, err := h.client.Repositories.Create(ctx, "", newRepo)
	if err != nil {
		return nil, fmt.Errorf("create repository %s: %w", name, err)
	}

	return h.toRepo(repo), nil
}

// CreateBlob uploads content as a base64 blob. Blob creation goes through
// the raw object store and never requires an existing ref, so this works
// identically for empty and populated repositories.
func (h *GitHubHost) CreateBlob(ctx context.Context, repo, content string) (string, error) {
	blob := &github.Blob{
		Content:  github.String(base64.StdEncoding.EncodeToString([]byte(content))),
		Encoding: github.String("base64"),
	}

	created, _, err := h.client.Git.CreateBlob(ctx, h.owner, repo, blob)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}

	return created.GetSHA(), nil
}

// CreateTree creates a tree, layered on baseTree when given.
func (h *GitHubHost) CreateTree(ctx context.Context, repo, baseTree string, entries []TreeEntry) (string, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		ghEntries = append(ghEntries, &github.TreeEntry{
			Path: github.String(e.Path),
			Mode: github.String(e.Mode),
			Type: github.String(e.Type),
			SHA:  github.String(e.SHA),
		})
	}

	tree, _, err := h.client.Git.CreateTree(ctx, h.owner, repo, baseTree, ghEntries)
	if err != nil {
		return "", fmt.Errorf("create tree: %w", err)
	}

	return tree.GetSHA(), nil
}

// CreateCommit creates a commit pointing at treeSHA with the given parents.
func (h *GitHubHost) CreateCommit(ctx context.Context, repo, message, treeSHA string, parents []string) (string, error) {
	ghParents := make([]*github.Commit, 0, len(parents))
	for _, p := range parents {
		ghParents = append(ghParents, &github.Commit{SHA: github.String(p)})
	}

	commit := &github.Commit{
		Message: github.String(message),
		Tree:    &github.Tree{SHA: github.String(treeSHA)},
		Parents: ghParents,
	}

	created, _, err := h.client.Git.CreateCommit(ctx, h.owner, repo, commit, nil)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	return created.GetSHA(), nil
}

// GetHead resolves the branch tip and its tree. An empty repository
// surfaces as ErrRefNotFound: the git endpoints answer 404 for a missing
// ref and 409 when the repository has no commits at all.
func (h *GitHubHost) GetHead(ctx context.Context, repo, branch string) (*Head, error) {
	ref, resp, err := h.client.Git.GetRef(ctx, h.owner, repo, "heads/"+branch)
	if err != nil {
		if statusIs(resp, http.StatusNotFound) || statusIs(resp, http.StatusConflict) {
			return nil, fmt.Errorf("%s@%s: %w", repo, branch, ErrRefNotFound)
		}
		return nil, fmt.Errorf("get ref %s: %w", branch, err)
	}

	sha := ref.GetObject().GetSHA()
	commit, _, err := h.client.Git.GetCommit(ctx, h.owner, repo, sha)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", sha, err)
	}

	return &Head{
		CommitSHA: sha,
		TreeSHA:   commit.GetTree().GetSHA(),
	}, nil
}

// CreateRef creates the branch ref pointing at sha.
func (h *GitHubHost) CreateRef(ctx context.Context, repo, branch, sha string) error {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	if _, _, err := h.client.Git.CreateRef(ctx, h.owner, repo, ref); err != nil {
		return fmt.Errorf("create ref %s: %w", branch, err)
	}
	return nil
}

// UpdateRef fast-moves the branch ref to sha.
func (h *GitHubHost) UpdateRef(ctx context.Context, repo, branch, sha string) error {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	if _, _, err := h.client.Git.UpdateRef(ctx, h.owner, repo, ref, false); err != nil {
		return fmt.Errorf("update ref %s: %w", branch, err)
	}
	return nil
}

// EnablePages activates Pages for the branch root. A 409 means the site is
// already active, which is the outcome we wanted.
func (h *GitHubHost) EnablePages(ctx context.Context, repo, branch string) error {
	pages := &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String("/"),
		},
	}

	_, resp, err := h.client.Repositories.EnablePages(ctx, h.owner, repo, pages)
	if err != nil {
		if statusIs(resp, http.StatusConflict) {
			return nil
		}
		return fmt.Errorf("enable pages: %w", err)
	}
	return nil
}

// toRepo converts a GitHub API repository to the engine's view of it.
func (h *GitHubHost) toRepo(repo *github.Repository) *Repo {
	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	return &Repo{
		Name:          repo.GetName(),
		Owner:         h.owner,
		DefaultBranch: branch,
		URL:           repo.GetHTMLURL(),
	}
}

// statusIs reports whether a response carries the given status code.
func statusIs(resp *github.Response, code int) bool {
	return resp != nil && resp.StatusCode == code
}
