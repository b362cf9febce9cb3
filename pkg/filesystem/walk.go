package filesystem

import (
	"os"
	"path"

	"github.com/kr/fs"
)

// RootPath is the walker path of the tree root.
const RootPath = "."

// Walk returns a pre-order walker over the tree rooted at root on fsys.
//
// Walker paths are slash-separated and relative to root, with the root itself
// reported as RootPath. Children are visited in the order ReadDir returns them.
// A symlinked root is followed; symlinks below it are reported, not descended.
func Walk(fsys FileSystem, root string) *fs.Walker {
	return fs.WalkFS(RootPath, &rootedFS{fsys: fsys, root: root})
}

// Resolve maps a slash-separated walker path back onto fsys under root.
func Resolve(fsys FileSystem, root, rel string) string {
	if rel == RootPath || rel == "" {
		return root
	}

	return fsys.Join(root, rel)
}

// rootedFS presents a subtree of a FileSystem to kr/fs with relative paths.
type rootedFS struct {
	fsys FileSystem
	root string
}

func (r *rootedFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (r *rootedFS) Lstat(rel string) (os.FileInfo, error) {
	if rel == RootPath {
		return r.fsys.Stat(r.root)
	}

	return r.fsys.Lstat(Resolve(r.fsys, r.root, rel))
}

func (r *rootedFS) ReadDir(rel string) ([]os.FileInfo, error) {
	return r.fsys.ReadDir(Resolve(r.fsys, r.root, rel))
}
