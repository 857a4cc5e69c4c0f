package binding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem injects an fs.FS used by SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
		}
	}
}

// WithHTTPFallback enables URL sources through a default client with the
// given timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		if l.http == nil {
			l.http = &http.Client{}
		}
		l.timeout = timeout
	}
}

// Loader reads raw documents from files, an fs.FS or HTTP. HTTP stays
// disabled unless a client is configured.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// NewLoader constructs a Loader.
func NewLoader(options ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load returns the raw bytes behind src.
func (l *Loader) Load(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("binding loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch src.Kind() {
	case SourceKindFile:
		return loadFile(src.Location())
	case SourceKindFS:
		return loadFromFS(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return nil, errors.New("binding loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, fmt.Errorf("binding loader: unsupported source kind %q", src.Kind())
	}
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("binding loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("binding loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("binding loader: fs path is required")
	}
	return fs.ReadFile(filesystem, name)
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("binding loader: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
