package assets

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"sync"
)

// Provider supplies the current manifest.
type Provider interface {
	// Assets returns the current manifest.
	Assets() Manifest

	// Refresh reloads the manifest from its source.
	Refresh() error
}

// Static is a Provider with a fixed manifest. Refresh is a no-op.
type Static Manifest

// Assets implements Provider.
func (s Static) Assets() Manifest { return Manifest(s) }

// Refresh implements Provider.
func (Static) Refresh() error { return nil }

// FileProvider reads the manifest from a file. It is safe for concurrent use.
type FileProvider struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	manifest Manifest
	loads    int
}

// NewFileProvider creates a provider for the manifest at path and loads it.
// A missing file yields an empty manifest, since in development the bundler
// may not have written it yet; any other error is returned.
func NewFileProvider(path string, logger *slog.Logger) (*FileProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &FileProvider{path: path, logger: logger}
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// Assets implements Provider. The returned manifest is a copy.
func (p *FileProvider) Assets() Manifest {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.manifest.Clone()
}

// Refresh implements Provider. On error the previous manifest is kept.
func (p *FileProvider) Refresh() error {
	m, err := Load(p.path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		p.logger.Debug("asset manifest missing", "path", p.path)
		m = Manifest{}
	}

	p.mu.Lock()
	p.manifest = m
	p.loads++
	p.mu.Unlock()
	return nil
}

// Loads returns how many times the manifest has been read.
func (p *FileProvider) Loads() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loads
}
