package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

const (
	// DefaultDebounce is the quiet period before a query is issued.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultCacheSize bounds the number of cached query results.
	DefaultCacheSize = 128
)

// ErrNoSource is returned when a Searcher is built without a lookup function.
var ErrNoSource = errors.New("search: search function is required")

// Response is a completed lookup for one generation.
type Response struct {
	Generation uint64
	Query      string
	Options    []model.Option
	Err        error
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithDebounce sets the quiet period. Zero issues queries immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Searcher) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithCacheSize sets the result cache size; zero disables caching.
func WithCacheSize(size int) Option {
	return func(s *Searcher) {
		s.cacheSize = size
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnResult registers a callback invoked for every current-generation
// response. It runs on the searcher's goroutine.
func WithOnResult(fn func(Response)) Option {
	return func(s *Searcher) {
		s.onResult = fn
	}
}

// Searcher debounces queries against a Func. Only the newest generation's
// response is ever published.
type Searcher struct {
	fn        Func
	debounce  time.Duration
	cacheSize int
	cache     *lru.Cache[string, []model.Option]
	group     singleflight.Group
	logger    hclog.Logger
	onResult  func(Response)

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	pending string
	loading bool
	latest  Response
	closed  bool
}

// New constructs a Searcher around fn.
func New(fn Func, opts ...Option) (*Searcher, error) {
	if fn == nil {
		return nil, ErrNoSource
	}
	s := &Searcher{
		fn:        fn,
		debounce:  DefaultDebounce,
		cacheSize: DefaultCacheSize,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, []model.Option](s.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("search: build cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Query schedules a lookup for text after the debounce window, superseding
// any pending or in-flight query. It returns the generation assigned to the
// request.
func (s *Searcher) Query(ctx context.Context, text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.gen
	}

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.group.Forget(s.pending)
	}
	s.loading = true

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pending = normalizeQuery(text)
	run := func() {
		defer cancel()
		s.run(reqCtx, gen, text)
	}
	if s.debounce == 0 {
		go run()
		return gen
	}
	s.timer = time.AfterFunc(s.debounce, run)
	return gen
}

// Search performs an immediate lookup, sharing the cache and coalescing
// identical concurrent queries. It does not touch the debounce state.
func (s *Searcher) Search(ctx context.Context, text string) ([]model.Option, error) {
	key := normalizeQuery(text)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cloneOptions(cached), nil
		}
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.fn(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Trace("coalesced search", "query", key)
	}
	options, _ := v.([]model.Option)
	if s.cache != nil {
		s.cache.Add(key, cloneOptions(options))
	}
	return cloneOptions(options), nil
}

func (s *Searcher) run(ctx context.Context, gen uint64, text string) {
	if !s.current(gen) {
		return
	}
	options, err := s.Search(ctx, text)
	if ctx.Err() != nil {
		s.logger.Debug("search cancelled", "query", text, "generation", gen)
		return
	}
	if err != nil {
		s.logger.Warn("search failed", "query", text, "error", err)
	}

	resp := Response{Generation: gen, Query: text, Options: options, Err: err}
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		s.logger.Debug("dropping stale search response", "query", text, "generation", gen)
		return
	}
	s.loading = false
	s.latest = resp
	s.timer = nil
	s.cancel = nil
	s.pending = ""
	callback := s.onResult
	s.mu.Unlock()

	if callback != nil {
		callback(resp)
	}
}

func (s *Searcher) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen && !s.closed
}

// Loading reports whether a query is pending or in flight.
func (s *Searcher) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Latest returns the newest published response.
func (s *Searcher) Latest() Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Generation returns the newest generation number issued.
func (s *Searcher) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Close stops any pending query and cancels in-flight work.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.group.Forget(s.pending)
	}
}

func normalizeQuery(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func cloneOptions(options []model.Option) []model.Option {
	if options == nil {
		return []model.Option{}
	}
	return append([]model.Option{}, options...)
}
