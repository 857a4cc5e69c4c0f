package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

var designsBucket = []byte("designs")

// BoltStore keeps designs as JSON values in a single bbolt bucket.
type BoltStore struct {
	db  *bolt.DB
	cfg config
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string, opts ...Option) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("library: open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(designsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("library: init bolt: %w", err)
	}
	return &BoltStore{db: db, cfg: newConfig(opts)}, nil
}

// Close releases the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save implements Store.
func (s *BoltStore) Save(ctx context.Context, design model.Design) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	if err := checkID(design.ID); err != nil {
		return model.Design{}, err
	}

	var stored model.Design
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(designsBucket)
		var previous *model.Design
		if raw := bucket.Get([]byte(design.ID)); raw != nil {
			existing, err := Decode(raw)
			if err != nil {
				s.cfg.logger.Warn("replacing undecodable design", "id", design.ID, "error", err)
			} else {
				previous = &existing
			}
		}
		var err error
		stored, err = s.cfg.stamp(design, previous)
		if err != nil {
			return err
		}
		data, err := Encode(stored, FormatJSON)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return model.Design{}, err
	}
	return stored, nil
}

// Load implements Store.
func (s *BoltStore) Load(ctx context.Context, id string) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	var design model.Design
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(designsBucket).Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		var err error
		design, err = Decode(raw)
		return err
	})
	return design, err
}

// List implements Store. Entries that fail to decode are logged and skipped.
func (s *BoltStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(designsBucket).ForEach(func(k, v []byte) error {
			design, err := Decode(v)
			if err != nil {
				s.cfg.logger.Warn("skipping undecodable design", "id", string(k), "error", err)
				return nil
			}
			out = append(out, Summarize(design))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

// Delete implements Store.
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(designsBucket)
		if bucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

// IsNotFound reports whether err means a missing design.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
