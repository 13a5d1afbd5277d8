// Package thumbs produces the small copies shown in gallery thumbnail strips.
package thumbs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	ErrInvalidPath = errors.New("invalid image path")
	ErrNotFound    = errors.New("image not found")
)

// Widths are the sizes a thumbnail can be rendered at. Requests snap up to
// the next width so the cache stays small.
var Widths = []int{160, 320, 640}

// Generator resizes images below root and caches the results on disk.
type Generator struct {
	root     string
	cacheDir string
	mu       sync.Mutex
}

func New(root, cacheDir string) *Generator {
	return &Generator{root: root, cacheDir: cacheDir}
}

// SnapWidth returns the configured width a request for w is served at.
func SnapWidth(w int) int {
	for _, allowed := range Widths {
		if w <= allowed {
			return allowed
		}
	}
	return Widths[len(Widths)-1]
}

// Path returns the cached thumbnail of ref at width, creating it first if
// it is missing or older than the source. ref is relative to root.
func (g *Generator) Path(ref string, width int) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(ref, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", ErrInvalidPath
	}
	// symlinks leading outside root fail here rather than being followed
	root, err := os.OpenRoot(g.root)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("open image root: %w", err)
	}
	defer root.Close()
	srcInfo, err := root.Stat(rel)
	if err != nil || srcInfo.IsDir() {
		return "", ErrNotFound
	}

	width = SnapWidth(width)
	dst := filepath.Join(g.cacheDir, fmt.Sprint(width), rel)

	g.mu.Lock()
	defer g.mu.Unlock()

	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
		return dst, nil
	}

	f, err := root.Open(rel)
	if err != nil {
		return "", ErrNotFound
	}
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", rel, err)
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}
	tmp := dst + ".tmp" + filepath.Ext(dst)
	if err := imaging.Save(img, tmp); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move thumbnail: %w", err)
	}
	return dst, nil
}
