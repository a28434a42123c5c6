package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
	"go.etcd.io/bbolt"
)

const (
	productsBucket   = "products"
	productIDsBucket = "product_ids"
)

// BoltRepository stores the catalog in an embedded bbolt file. Products
// are keyed by zero-padded position so a cursor walk yields catalog order.
type BoltRepository struct {
	db *bbolt.DB
}

var (
	_ Repository = (*BoltRepository)(nil)
	_ Seeder     = (*BoltRepository)(nil)
)

// OpenBoltRepository opens or creates the catalog file at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("bolt path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open catalog db")
	}
	repo := &BoltRepository{db: db}
	if err := repo.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *BoltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *BoltRepository) All(ctx context.Context) ([]domain.Product, error) {
	return r.scan(ctx, func(domain.Product) bool { return true })
}

func (r *BoltRepository) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.scan(ctx, func(p domain.Product) bool { return p.HasCategory(category) })
}

func (r *BoltRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	var product domain.Product
	err := r.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket([]byte(productIDsBucket)).Get([]byte(id))
		if key == nil {
			return errors.Wrapf(domain.ErrNotFound, "id %q", id)
		}
		payload := tx.Bucket([]byte(productsBucket)).Get(key)
		if payload == nil {
			return errors.Errorf("index points at missing product %q", id)
		}
		return decodeProduct(key, payload, &product)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *BoltRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.View(func(tx *bbolt.Tx) error {
		n = int64(tx.Bucket([]byte(productsBucket)).Stats().KeyN)
		return nil
	})
	return n, err
}

// Replace drops the stored catalog and writes products in order.
func (r *BoltRepository) Replace(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{productsBucket, productIDsBucket} {
			if err := tx.DeleteBucket([]byte(name)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return errors.Wrapf(err, "drop bucket %s", name)
			}
		}
		items, err := tx.CreateBucket([]byte(productsBucket))
		if err != nil {
			return err
		}
		ids, err := tx.CreateBucket([]byte(productIDsBucket))
		if err != nil {
			return err
		}
		for i, p := range products {
			payload, err := json.Marshal(p)
			if err != nil {
				return errors.Wrapf(err, "marshal product %q", p.ID)
			}
			key := positionKey(i)
			if err := items.Put(key, payload); err != nil {
				return err
			}
			if err := ids.Put([]byte(p.ID), key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BoltRepository) scan(ctx context.Context, match func(domain.Product) bool) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]domain.Product, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(productsBucket)).ForEach(func(k, v []byte) error {
			var p domain.Product
			if err := decodeProduct(k, v, &p); err != nil {
				return err
			}
			if match(p) {
				result = append(result, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *BoltRepository) ensureBuckets() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{productsBucket, productIDsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return errors.Wrapf(err, "create bucket %s", name)
			}
		}
		return nil
	})
}

func decodeProduct(key, payload []byte, p *domain.Product) error {
	if err := json.Unmarshal(payload, p); err != nil {
		return errors.Wrap(err, "unmarshal product")
	}
	_, err := fmt.Sscanf(string(key), "%08d", &p.Sort)
	return err
}

func positionKey(pos int) []byte {
	return []byte(fmt.Sprintf("%08d", pos))
}
