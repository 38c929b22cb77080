// Package githost implements the repository sync engine: it creates or
// updates a remote content-addressable repository (blob/tree/commit/ref
// objects) and activates static hosting for it.
package githost

import "context"

// Repo describes a remote repository.
type Repo struct {
	// Name is the repository name (without owner).
	Name string
	// Owner is the account owning the repository.
	Owner string
	// DefaultBranch is the branch new commits land on.
	DefaultBranch string
	// URL is the repository's browsable URL.
	URL string
}

// Head is the resolved tip of a branch: the commit it points at and that
// commit's tree.
type Head struct {
	CommitSHA string
	TreeSHA   string
}

// TreeEntry is one path in a tree under construction.
type TreeEntry struct {
	Path string
	Mode string
	Type string
	SHA  string
}

// RepositoryOperations defines repository lifecycle operations.
type RepositoryOperations interface {
	// GetRepo looks up a repository by name under the configured owner.
	// Returns ErrRepoNotFound if it does not exist.
	GetRepo(ctx context.Context, name string) (*Repo, error)
	// CreateRepo creates a public, auto-initialized repository.
	// An empty description is allowed (minimal fallback creation).
	CreateRepo(ctx context.Context, name, description string) (*Repo, error)
}

// ObjectOperations defines content-addressable object creation. None of
// these require an existing ref, so they work against empty repositories.
type ObjectOperations interface {
	// CreateBlob uploads file content and returns the blob's SHA.
	CreateBlob(ctx context.Context, repo, content string) (string, error)
	// CreateTree creates a tree from entries, layered on baseTree when
	// baseTree is non-empty. Returns the tree's SHA.
	CreateTree(ctx context.Context, repo, baseTree string, entries []TreeEntry) (string, error)
	// CreateCommit creates a commit for the tree with the given parents
	// (zero parents for an initial commit). Returns the commit's SHA.
	CreateCommit(ctx context.Context, repo, message, treeSHA string, parents []string) (string, error)
}

// RefOperations defines branch reference operations.
type RefOperations interface {
	// GetHead resolves a branch to its tip commit and tree.
	// Returns ErrRefNotFound if the branch has no commits yet.
	GetHead(ctx context.Context, repo, branch string) (*Head, error)
	// CreateRef creates the branch ref pointing at sha.
	CreateRef(ctx context.Context, repo, branch, sha string) error
	// UpdateRef moves the branch ref to sha.
	UpdateRef(ctx context.Context, repo, branch, sha string) error
}

// PagesOperations defines static hosting activation.
type PagesOperations interface {
	// EnablePages activates static hosting for the branch root.
	// Activating an already-active site is success, not an error.
	EnablePages(ctx context.Context, repo, branch string) error
}

// Host is the complete remote repository host contract the sync engine
// builds on. Consumers should prefer the focused interfaces when possible.
type Host interface {
	RepositoryOperations
	ObjectOperations
	RefOperations
	PagesOperations
}
