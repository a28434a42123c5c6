package catalog

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Operation names reported to the Recorder.
const (
	OpListAll        = "list_all"
	OpGetByID        = "get_by_id"
	OpListByCategory = "list_by_category"
	OpListCategories = "list_categories"
)

// MaxCategoryLength longest category filter accepted, in bytes
const MaxCategoryLength = 128

// Latency simulated remote-fetch delay per operation
type Latency struct {
	List       time.Duration
	Get        time.Duration
	Categories time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		List: 300 * time.Millisecond,
		Get:  200 * time.Millisecond,
	}
}

// Recorder observes each catalog call.
type Recorder interface {
	Observe(op string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, time.Duration, error) {}

type Option func(s *Service)

func WithLatency(l Latency) Option {
	return func(s *Service) {
		s.latency = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Service is the product catalog service. Every call blocks for the
// configured latency, or until ctx is done.
type Service struct {
	repo     Repository
	latency  Latency
	recorder Recorder
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		latency:  DefaultLatency(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latency returns the configured delays.
func (s *Service) Latency() Latency {
	return s.latency
}

// ListAll returns every product in catalog order.
func (s *Service) ListAll(ctx context.Context) (resp domain.ProductListResponse, err error) {
	defer s.observe(OpListAll, time.Now(), &err)
	if err = wait(ctx, s.latency.List); err != nil {
		return resp, classify(err)
	}
	products, err := s.repo.All(ctx)
	if err != nil {
		return resp, classify(err)
	}
	return domain.NewProductListResponse(products), nil
}

// GetByID looks a product up by exact id. A missing product is reported
// with found == false and a nil error.
func (s *Service) GetByID(ctx context.Context, id string) (product domain.Product, found bool, err error) {
	defer s.observe(OpGetByID, time.Now(), &err)
	if err = wait(ctx, s.latency.Get); err != nil {
		return product, false, classify(err)
	}
	product, err = s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, classify(err)
	}
	return product, true, nil
}

// ListByCategory returns the products whose category equals category,
// compared case-sensitively.
func (s *Service) ListByCategory(ctx context.Context, category string) (resp domain.ProductListResponse, err error) {
	defer s.observe(OpListByCategory, time.Now(), &err)
	if err = validateCategory(category); err != nil {
		return resp, err
	}
	if err = wait(ctx, s.latency.List); err != nil {
		return resp, classify(err)
	}
	products, err := s.repo.ByCategory(ctx, category)
	if err != nil {
		return resp, classify(err)
	}
	return domain.NewProductListResponse(products), nil
}

// ListCategories returns the distinct non-empty categories in order of
// first appearance.
func (s *Service) ListCategories(ctx context.Context) (categories []string, err error) {
	defer s.observe(OpListCategories, time.Now(), &err)
	if err = wait(ctx, s.latency.Categories); err != nil {
		return nil, classify(err)
	}
	products, err := s.repo.All(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return distinctCategories(products), nil
}

// Snapshot catalog state for an initial page load
type Snapshot struct {
	domain.ProductListResponse
	Categories []string `json:"categories"`
}

// Snapshot fetches products and categories concurrently.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.ListAll(gctx)
		snap.ProductListResponse = resp
		return err
	})
	g.Go(func() error {
		categories, err := s.ListCategories(gctx)
		snap.Categories = categories
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.recorder.Observe(op, time.Since(start), *err)
}

func distinctCategories(products []domain.Product) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		name := p.CategoryName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}
	return categories
}

func validateCategory(category string) error {
	if len(category) > MaxCategoryLength {
		return errors.Wrapf(domain.ErrInvalidQuery, "category longer than %d bytes", MaxCategoryLength)
	}
	if !utf8.ValidString(category) {
		return errors.Wrap(domain.ErrInvalidQuery, "category is not valid utf-8")
	}
	return nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classify maps repository and context errors onto catalog error kinds.
// Cancellation by the caller is returned as is.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(domain.ErrTimeout, err.Error())
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrUnavailable):
		return err
	default:
		return errors.Wrap(domain.ErrUnavailable, err.Error())
	}
}
