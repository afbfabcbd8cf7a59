// Package static resolves request paths to files under the served-assets
// root and serves them.
//
// A path that names an existing regular file is a static asset, and static
// assets take precedence over routing. Anything else is a miss: absent files,
// directories, paths that try to escape the root, and files that cannot be
// stat'ed at all.
package static

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/isoshell/internal/errors"
)

// CacheMode selects the Cache-Control policy.
type CacheMode string

const (
	// CacheNone disables caching, for development.
	CacheNone CacheMode = "none"

	// CacheProduction caches fingerprinted files forever and other files
	// for an hour.
	CacheProduction CacheMode = "production"
)

// Config configures a Resolver.
type Config struct {
	// Dir is the served-assets root on disk. Ignored when FS is set.
	Dir string

	// FS overrides Dir, mainly for tests.
	FS fs.FS

	// Cache is the Cache-Control policy.
	Cache CacheMode

	// Headers are added to every static response.
	Headers map[string]string

	// Logger receives probe failures at debug level.
	Logger *slog.Logger
}

// Asset is a resolved static file.
type Asset struct {
	// Path is the cleaned path relative to the root, with forward slashes.
	Path    string
	Size    int64
	ModTime time.Time
}

// Resolver maps URL paths to static assets.
type Resolver struct {
	fsys    fs.FS
	cache   CacheMode
	headers map[string]string
	logger  *slog.Logger
}

// New creates a Resolver. With neither Dir nor FS set, every lookup misses.
func New(cfg Config) *Resolver {
	r := &Resolver{
		fsys:    cfg.FS,
		cache:   cfg.Cache,
		headers: cfg.Headers,
		logger:  cfg.Logger,
	}
	if r.fsys == nil && cfg.Dir != "" {
		r.fsys = os.DirFS(cfg.Dir)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve reports whether urlPath names a regular file under the root.
// The root path "/" never resolves.
func (r *Resolver) Resolve(urlPath string) (Asset, bool) {
	if urlPath == "/" {
		return Asset{}, false
	}
	rel, ok := r.relPath(urlPath)
	if !ok {
		return Asset{}, false
	}

	info, err := fs.Stat(r.fsys, rel)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("static probe failed",
				"path", urlPath,
				"error", errors.New(errors.CodeStaticProbe).WithSubject(rel).Wrap(err))
		}
		return Asset{}, false
	}
	if !info.Mode().IsRegular() {
		return Asset{}, false
	}
	return Asset{Path: rel, Size: info.Size(), ModTime: info.ModTime()}, true
}

// ServeHTTP serves urlPath if it resolves and replies 404 otherwise.
func (r *Resolver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a, ok := r.Resolve(req.URL.Path)
	if !ok {
		http.NotFound(w, req)
		return
	}
	r.Serve(w, req, a)
}

// Serve writes a resolved asset. Only GET and HEAD are allowed.
func (r *Resolver) Serve(w http.ResponseWriter, req *http.Request, a Asset) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	f, err := r.fsys.Open(a.Path)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}

	r.applyCacheHeaders(w, a.Path)
	for key, value := range r.headers {
		w.Header().Set(key, value)
	}

	http.ServeContent(w, req, path.Base(a.Path), a.ModTime, content)
}

// relPath returns a sanitized relative path for a request path. It rejects
// traversal and absolute-path tricks so a lookup cannot escape the root.
func (r *Resolver) relPath(urlPath string) (string, bool) {
	if r.fsys == nil {
		return "", false
	}

	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" {
		return "", false
	}

	// NUL can arrive via %00.
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// "//etc/passwd" leaves a leading slash after trimming one.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot segments are rejected before cleaning so traversal is not
	// cleaned into a different, valid path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || !fs.ValidPath(clean) {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

func (r *Resolver) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch r.cache {
	case CacheNone, "":
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheProduction:
		if isFingerprinted(filePath) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether a file name carries a content hash, as in
// "app.a1b2c3d4.css".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
