package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vr/engine/mesh"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// RootMeshName is the name of the synthetic mesh every import is parented under.
const RootMeshName = "__root__"

const (
	defaultWorkers     = 2
	defaultQueueSize   = 64
	defaultIdleTimeout = 5 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

var (
	// ErrNoMeshes is returned when an asset parses but contains no geometry.
	ErrNoMeshes = errors.New("loader: asset contains no meshes")
	// ErrUnsupportedBackend is returned by Import when the loader was built with an unknown backend type.
	ErrUnsupportedBackend = errors.New("loader: unsupported backend")
	// ErrClosed is returned by Import after Close.
	ErrClosed = errors.New("loader: closed")
)

// ImportResult is the outcome of a successful Import.
type ImportResult struct {
	// URL is the location the asset was fetched from.
	URL string
	// Meshes holds the root mesh first, then every node depth-first.
	Meshes []mesh.Mesh
}

// Root returns the synthetic root mesh, or nil for an empty result.
//
// Returns:
//   - mesh.Mesh: the first mesh of the result
func (r *ImportResult) Root() mesh.Mesh {
	if r == nil || len(r.Meshes) == 0 {
		return nil
	}
	return r.Meshes[0]
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	backend loaderBackend
	pool    worker.DynamicWorkerPool
	workers int
	nextID  int
	closed  bool

	client *http.Client
	logger *slog.Logger

	offline bool
	cache   map[string][]byte
}

// Loader defines the public-facing interface for importing 3D assets from a file path or URL.
// Imports run on a bounded worker pool so the caller's goroutine only waits on the result.
type Loader interface {
	// Import fetches, parses and builds the mesh hierarchy of an asset.
	// The call blocks until the import finishes or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels the wait and any in-flight HTTP request
	//   - location: a file path, file:// URL or http(s) URL
	//
	// Returns:
	//   - *ImportResult: the imported meshes
	//   - error: fetch, parse or ErrNoMeshes errors, or ctx.Err()
	Import(ctx context.Context, location string) (*ImportResult, error)

	// Cached reports whether raw bytes for location are held by the offline cache.
	//
	// Parameters:
	//   - location: the asset location
	//
	// Returns:
	//   - bool: true if a later Import of location will not fetch again
	Cached(location string) bool

	// Close stops the worker pool. Further imports return ErrClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: defaultWorkers,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  slog.Default(),
		cache:   make(map[string][]byte),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	l.pool = worker.NewDynamicWorkerPool(l.workers, defaultQueueSize, defaultIdleTimeout)

	return l
}

type importOutcome struct {
	result *ImportResult
	err    error
}

func (l *loader) Import(ctx context.Context, location string) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.backend == nil {
		return nil, ErrUnsupportedBackend
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	id := l.nextID
	l.nextID++
	l.mu.Unlock()

	done := make(chan importOutcome, 1)
	l.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: location,
		Do: func() (any, error) {
			res, err := l.importLocation(ctx, location)
			done <- importOutcome{result: res, err: err}
			return res, err
		},
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.result, out.err
	}
}

func (l *loader) Cached(location string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[location]
	return ok
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.pool.Stop()
}

// importLocation runs on a pool worker.
func (l *loader) importLocation(ctx context.Context, location string) (*ImportResult, error) {
	start := time.Now()

	data, err := l.fetchCached(ctx, location)
	if err != nil {
		return nil, err
	}

	fetch := func(uri string) ([]byte, error) {
		ref, err := resolveRelative(location, uri)
		if err != nil {
			return nil, err
		}
		return l.fetchCached(ctx, ref)
	}

	meshes, err := l.backend.Load(data, fetch)
	if err != nil {
		return nil, fmt.Errorf("loader: import %s: %w", location, err)
	}

	l.logger.Debug("asset imported", "url", location, "meshes", len(meshes), "elapsed", time.Since(start))

	return &ImportResult{URL: location, Meshes: meshes}, nil
}

// fetchCached returns the raw bytes of location, consulting the offline cache when enabled.
func (l *loader) fetchCached(ctx context.Context, location string) ([]byte, error) {
	if l.offline {
		l.mu.Lock()
		data, ok := l.cache[location]
		l.mu.Unlock()
		if ok {
			return data, nil
		}
	}

	data, err := l.fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	if l.offline {
		l.mu.Lock()
		l.cache[location] = data
		l.mu.Unlock()
	}
	return data, nil
}

func (l *loader) fetch(ctx context.Context, location string) ([]byte, error) {
	if isHTTP(location) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("loader: fetch %s: %w", location, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("loader: fetch %s: %w", location, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("loader: fetch %s: unexpected status %s", location, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", location, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", location, err)
	}
	return data, nil
}

func isHTTP(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// resolveRelative resolves uri against the location of the asset that references it.
func resolveRelative(base, uri string) (string, error) {
	if isHTTP(uri) {
		return uri, nil
	}
	if isHTTP(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("loader: base url %s: %w", base, err)
		}
		ref, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("loader: relative uri %s: %w", uri, err)
		}
		return b.ResolveReference(ref).String(), nil
	}

	// glTF URIs are percent-encoded.
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(base, "file://")), uri), nil
}
