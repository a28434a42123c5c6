// Package assets checks that the model and image files referenced by the
// catalog can actually be served.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/pkg/common"
	"go.uber.org/zap"
)

// Event bus topics
const (
	TopicMissing  = "assets:missing"  // MissingAsset
	TopicVerified = "assets:verified" // Report
)

const (
	KindModel = "model"
	KindImage = "image"
)

type Config struct {
	ModelsPath   string
	ModelsDir    string
	StaticDir    string
	Workers      int
	ProbeTimeout time.Duration
}

type MissingAsset struct {
	ProductID string `json:"productId" yaml:"productId"`
	Kind      string `json:"kind" yaml:"kind"`
	URL       string `json:"url" yaml:"url"`
	Reason    string `json:"reason" yaml:"reason"`
}

type Report struct {
	ID        int64          `json:"id" yaml:"id"`
	CheckedAt time.Time      `json:"checkedAt" yaml:"checkedAt"`
	Checked   int            `json:"checked" yaml:"checked"`
	Missing   []MissingAsset `json:"missing" yaml:"missing"`
}

func (r Report) OK() bool {
	return len(r.Missing) == 0
}

// ProbeFunc returns the HTTP status of a HEAD request to rawurl.
type ProbeFunc func(ctx context.Context, rawurl string, timeout time.Duration) (int, error)

func headProbe(ctx context.Context, rawurl string, timeout time.Duration) (int, error) {
	code := 0
	err := gout.HEAD(rawurl).
		WithContext(ctx).
		SetTimeout(timeout).
		Code(&code).
		Do()
	return code, err
}

type Option func(v *Verifier)

func WithProbe(probe ProbeFunc) Option {
	return func(v *Verifier) {
		v.probe = probe
	}
}

// Verifier resolves asset URLs against the local static directories or
// probes remote ones. The latest report is kept for the HTTP API.
type Verifier struct {
	cfg   Config
	bus   EventBus.Bus
	probe ProbeFunc

	mu   sync.RWMutex
	last *Report
}

func NewVerifier(cfg Config, bus EventBus.Bus, opts ...Option) *Verifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	v := &Verifier{cfg: cfg, bus: bus, probe: headProbe}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type check struct {
	pos       int
	productID string
	kind      string
	url       string
}

// Verify checks every model and image URL of products.
func (v *Verifier) Verify(ctx context.Context, products []domain.Product) (Report, error) {
	checks := make([]check, 0, len(products)*2)
	for _, p := range products {
		checks = append(checks, check{pos: len(checks), productID: p.ID, kind: KindModel, url: p.ModelURL})
		if p.ImageURL != "" {
			checks = append(checks, check{pos: len(checks), productID: p.ID, kind: KindImage, url: p.ImageURL})
		}
	}

	pool, err := ants.NewPool(v.cfg.Workers)
	if err != nil {
		return Report{}, errors.Wrap(err, "create verify pool")
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		missing = make(map[int]MissingAsset)
	)
	for _, c := range checks {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if reason := v.checkOne(ctx, c.url); reason != "" {
				mu.Lock()
				missing[c.pos] = MissingAsset{ProductID: c.productID, Kind: c.kind, URL: c.url, Reason: reason}
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return Report{}, errors.Wrap(err, "submit verify task")
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	positions := make([]int, 0, len(missing))
	for pos := range missing {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	report := Report{
		ID:        common.UUIDint64(),
		CheckedAt: time.Now(),
		Checked:   len(checks),
		Missing:   make([]MissingAsset, 0, len(positions)),
	}
	for _, pos := range positions {
		m := missing[pos]
		report.Missing = append(report.Missing, m)
		zap.L().Warn("catalog asset missing",
			zap.String("product", m.ProductID),
			zap.String("kind", m.Kind),
			zap.String("url", m.URL),
			zap.String("reason", m.Reason))
		v.publish(TopicMissing, m)
	}

	v.mu.Lock()
	v.last = &report
	v.mu.Unlock()
	v.publish(TopicVerified, report)
	return report, nil
}

// LastReport returns the most recent report, if any run finished.
func (v *Verifier) LastReport() (Report, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.last == nil {
		return Report{}, false
	}
	return *v.last, true
}

func (v *Verifier) publish(topic string, arg interface{}) {
	if v.bus != nil {
		v.bus.Publish(topic, arg)
	}
}

// checkOne returns an empty string when rawurl is reachable, or the reason
// it is not.
func (v *Verifier) checkOne(ctx context.Context, rawurl string) string {
	if ctx.Err() != nil {
		return ""
	}
	if common.IsRemoteURL(rawurl) {
		code, err := v.probe(ctx, rawurl, v.cfg.ProbeTimeout)
		if err != nil {
			return err.Error()
		}
		if code >= 400 || code == 0 {
			return fmt.Sprintf("HTTP %d", code)
		}
		return ""
	}

	file, err := v.LocalPath(rawurl)
	if err != nil {
		return err.Error()
	}
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return "file not found"
		}
		return err.Error()
	}
	if info.IsDir() {
		return "is a directory"
	}
	return ""
}

// LocalPath maps a relative asset URL to a file. URLs under the models
// path resolve into ModelsDir, everything else into StaticDir. The result
// never escapes those directories.
func (v *Verifier) LocalPath(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", errors.Wrapf(err, "parse asset url %q", rawurl)
	}
	if u.IsAbs() || u.Host != "" {
		return "", errors.Errorf("asset url %q is not local", rawurl)
	}
	clean := path.Clean("/" + u.Path)

	modelsPath := path.Clean("/" + strings.Trim(v.cfg.ModelsPath, "/"))
	if modelsPath != "/" && v.cfg.ModelsDir != "" &&
		(clean == modelsPath || strings.HasPrefix(clean, modelsPath+"/")) {
		rel := strings.TrimPrefix(clean, modelsPath)
		return filepath.Join(v.cfg.ModelsDir, filepath.FromSlash(rel)), nil
	}
	if v.cfg.StaticDir == "" {
		return "", errors.New("static dir is not configured")
	}
	return filepath.Join(v.cfg.StaticDir, filepath.FromSlash(clean)), nil
}
