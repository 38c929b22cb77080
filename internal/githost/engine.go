package githost

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// Artifact and template paths within the target repository.
const (
	artifactPath = "index.html"
	licensePath  = "LICENSE"
	readmePath   = "README.md"
)

// Commit messages for the two deployment rounds.
const (
	initialCommitMessage = "Initial deployment: Auto-generated web application"
	updateCommitMessage  = "Update: Revised application based on new requirements"
)

// Engine is the repository sync engine. It owns the remote repository
// lifecycle for a job: create-or-find, object-graph construction, ref
// update, and hosting activation.
type Engine struct {
	host   Host
	owner  string
	branch string
}

// NewEngine creates an Engine committing to the given default branch
// ("main" if empty) under owner.
func NewEngine(host Host, owner, branch string) *Engine {
	if branch == "" {
		branch = "main"
	}

	return &Engine{
		host:   host,
		owner:  owner,
		branch: branch,
	}
}

// CreateAndDeploy handles round 1: ensure the repository exists (reusing it
// if a previous run already created it), commit the artifact plus LICENSE
// and README, and activate static hosting.
func (e *Engine) CreateAndDeploy(ctx context.Context, taskID, artifact, brief string) (models.CommitResult, error) {
	name := ResolveRepoName(taskID)
	log.Printf("[githost] creating and deploying repository %s", name)

	repo, err := e.ensureRepo(ctx, name, brief)
	if err != nil {
		return models.CommitResult{}, err
	}

	files := map[string]string{
		artifactPath: artifact,
		licensePath:  licenseText,
		readmePath:   readmeContent(e.owner, name, brief),
	}

	commitSHA, err := e.commitFiles(ctx, repo, files, initialCommitMessage)
	if err != nil {
		return models.CommitResult{}, err
	}

	pagesURL := e.enablePages(ctx, repo)

	return models.CommitResult{
		RepoURL:   repo.URL,
		CommitSHA: commitSHA,
		PagesURL:  pagesURL,
	}, nil
}

// Update handles round >1: the repository must already exist. Only the
// artifact and a regenerated README are committed; LICENSE is untouched and
// hosting is assumed active from round 1.
func (e *Engine) Update(ctx context.Context, taskID, artifact, brief string) (models.CommitResult, error) {
	name := ResolveRepoName(taskID)
	log.Printf("[githost] updating repository %s", name)

	repo, err := e.host.GetRepo(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRepoNotFound) {
			return models.CommitResult{}, fmt.Errorf("update of %s: %w", name, ErrRepoNotFound)
		}
		return models.CommitResult{}, err
	}

	files := map[string]string{
		artifactPath: artifact,
		readmePath:   readmeContent(e.owner, name, brief),
	}

	commitSHA, err := e.commitFiles(ctx, repo, files, updateCommitMessage)
	if err != nil {
		return models.CommitResult{}, err
	}

	return models.CommitResult{
		RepoURL:   repo.URL,
		CommitSHA: commitSHA,
		PagesURL:  e.pagesURL(name),
	}, nil
}

// ensureRepo looks the repository up and creates it if absent. Creation is
// tried with a sanitized description first, then once more with a minimal
// name-only call; if both fail the error combines both causes.
func (e *Engine) ensureRepo(ctx context.Context, name, brief string) (*Repo, error) {
	repo, err := e.host.GetRepo(ctx, name)
	if err == nil {
		log.Printf("[githost] found existing repository %s", name)
		return repo, nil
	}
	if !errors.Is(err, ErrRepoNotFound) {
		return nil, err
	}

	log.Printf("[githost] creating new repository %s", name)
	repo, primaryErr := e.host.CreateRepo(ctx, name, describeRepo(brief))
	if primaryErr == nil {
		return repo, nil
	}

	log.Printf("[githost] repository creation failed, retrying with minimal call: %v", primaryErr)
	repo, fallbackErr := e.host.CreateRepo(ctx, name, "")
	if fallbackErr == nil {
		return repo, nil
	}

	return nil, fmt.Errorf("repository creation failed (primary: %v, fallback: %v)", primaryErr, fallbackErr)
}

// commitFiles commits the file set on top of the branch head. If the
// repository is empty the commit has no parent and the ref is created
// instead of moved. Paths not present in files survive unchanged: the new
// tree is layered on the base tree, never a full overwrite. Any failure
// aborts the whole operation; a half-built tree or commit is simply
// abandoned, since unreferenced objects are inert.
func (e *Engine) commitFiles(ctx context.Context, repo *Repo, files map[string]string, message string) (string, error) {
	branch := repo.DefaultBranch
	if branch == "" {
		branch = e.branch
	}

	head, err := e.host.GetHead(ctx, repo.Name, branch)
	if err != nil {
		if !errors.Is(err, ErrRefNotFound) {
			return "", fmt.Errorf("resolving head of %s: %w", branch, err)
		}
		// Empty repository: no parent, no base tree.
		head = nil
		log.Printf("[githost] repository %s is empty, creating initial commit", repo.Name)
	}

	// Deterministic entry order keeps retries and tests stable.
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]TreeEntry, 0, len(paths))
	for _, path := range paths {
		blobSHA, err := e.host.CreateBlob(ctx, repo.Name, files[path])
		if err != nil {
			return "", fmt.Errorf("uploading %s: %w", path, err)
		}

		entries = append(entries, TreeEntry{
			Path: path,
			Mode: "100644",
			Type: "blob",
			SHA:  blobSHA,
		})
	}

	baseTree := ""
	var parents []string
	if head != nil {
		baseTree = head.TreeSHA
		parents = []string{head.CommitSHA}
	}

	treeSHA, err := e.host.CreateTree(ctx, repo.Name, baseTree, entries)
	if err != nil {
		return "", fmt.Errorf("building tree: %w", err)
	}

	commitSHA, err := e.host.CreateCommit(ctx, repo.Name, message, treeSHA, parents)
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}

	if head != nil {
		if err := e.host.UpdateRef(ctx, repo.Name, branch, commitSHA); err != nil {
			return "", err
		}
	} else {
		if err := e.host.CreateRef(ctx, repo.Name, branch, commitSHA); err != nil {
			// The ref can appear between head resolution and now
			// (auto-init finishing, or a concurrent job); move it instead.
			if updateErr := e.host.UpdateRef(ctx, repo.Name, branch, commitSHA); updateErr != nil {
				return "", fmt.Errorf("setting ref %s: %w", branch, updateErr)
			}
		}
	}

	log.Printf("[githost] committed %d files to %s@%s (%s)", len(files), repo.Name, branch, commitSHA)
	return commitSHA, nil
}

// enablePages activates static hosting and returns the site URL. Activation
// is optimistic: any failure is logged and the deterministically computed
// URL is returned anyway.
func (e *Engine) enablePages(ctx context.Context, repo *Repo) string {
	branch := repo.DefaultBranch
	if branch == "" {
		branch = e.branch
	}

	if err := e.host.EnablePages(ctx, repo.Name, branch); err != nil {
		log.Printf("[githost] enabling pages for %s failed: %v (returning expected URL anyway)", repo.Name, err)
	}

	return e.pagesURL(repo.Name)
}

// pagesURL computes the static hosting URL for a repository name.
func (e *Engine) pagesURL(name string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", e.owner, name)
}
