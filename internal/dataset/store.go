// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/conventus/internal/models"
)

// Key layout in BadgerDB. Revision keys use a fixed-width decimal
// suffix so prefix iteration yields ascending revision order.
const (
	revKeyPrefix  = "dataset:rev:"
	metaKeyPrefix = "dataset:meta:"
	currentKey    = "dataset:current"
	counterKey    = "dataset:seq"
)

// Store errors.
var (
	ErrRevisionNotFound = errors.New("dataset revision not found")
	ErrNoCurrentDataset = errors.New("no current dataset")
	ErrDeleteCurrent    = errors.New("cannot delete the current dataset revision")
)

// StoreConfig contains the BadgerDB-backed store configuration.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `json:"path" koanf:"path"`

	// InMemory runs the store without touching disk.
	InMemory bool `json:"in_memory" koanf:"in_memory"`

	// SyncWrites fsyncs every write. Slower, but an accepted upload
	// survives a crash.
	// Default: true.
	SyncWrites bool `json:"sync_writes" koanf:"sync_writes"`

	// GCInterval is how often value-log garbage collection runs.
	// Default: 10m.
	GCInterval time.Duration `json:"gc_interval" koanf:"gc_interval"`
}

// DefaultStoreConfig returns a StoreConfig with production defaults.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:       "./data/datasets",
		SyncWrites: true,
		GCInterval: 10 * time.Minute,
	}
}

// Store is a revisioned dataset store backed by BadgerDB.
//
// Every accepted upload becomes a new immutable revision; the current
// pointer names the revision the engine computes against by default.
// Revisions stay addressable until deleted, so a bad upload can be
// rolled back by activating an older one.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenStore opens (or creates) the dataset store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenStore(cfg *StoreConfig, logger zerolog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultStoreConfig()
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	// Dataset documents are small; keep value log files small too.
	opts.ValueLogFileSize = 16 << 20
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open dataset store: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger.With().Str("component", "dataset_store").Logger(),
	}

	store.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("dataset store opened")

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a parsed dataset as the next revision and makes it
// current. The raw document bytes are only used for the checksum; the
// stored value is the parsed form. The dataset's Revision and
// UploadedAt fields are stamped as a side effect.
func (s *Store) Put(ctx context.Context, raw []byte, ds *models.Dataset) (*models.DatasetMeta, error) {
	if ds == nil {
		return nil, errors.New("nil dataset")
	}

	sum := sha256.Sum256(raw)
	meta := models.DatasetMeta{
		UploadedAt: time.Now().UTC(),
		Users:      len(ds.Users),
		Groups:     len(ds.Groups),
		Activities: len(ds.Activities),
		Checksum:   hex.EncodeToString(sum[:]),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		revision, err := nextRevision(txn)
		if err != nil {
			return err
		}

		ds.Revision = revision
		ds.UploadedAt = meta.UploadedAt
		meta.Revision = revision

		payload, err := json.Marshal(ds)
		if err != nil {
			return fmt.Errorf("marshal dataset: %w", err)
		}
		metaBytes, err := json.Marshal(&meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}

		if err := txn.Set(revKey(revision), payload); err != nil {
			return fmt.Errorf("set revision: %w", err)
		}
		if err := txn.Set(metaKey(revision), metaBytes); err != nil {
			return fmt.Errorf("set meta: %w", err)
		}
		if err := txn.Set([]byte(currentKey), revisionValue(revision)); err != nil {
			return fmt.Errorf("set current pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	meta.Current = true
	s.logger.Info().
		Uint64("revision", meta.Revision).
		Int("users", meta.Users).
		Int("groups", meta.Groups).
		Int("activities", meta.Activities).
		Msg("dataset stored")

	return &meta, nil
}

// Revision retrieves one stored dataset revision.
func (s *Store) Revision(ctx context.Context, revision uint64) (*models.Dataset, error) {
	var ds models.Dataset

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(revKey(revision))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRevisionNotFound
		}
		if err != nil {
			return fmt.Errorf("get revision: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ds)
		})
	})
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

// Current retrieves the dataset the current pointer names.
func (s *Store) Current(ctx context.Context) (*models.Dataset, error) {
	revision, err := s.CurrentRevision(ctx)
	if err != nil {
		return nil, err
	}
	return s.Revision(ctx, revision)
}

// CurrentRevision returns the revision the current pointer names.
func (s *Store) CurrentRevision(ctx context.Context) (uint64, error) {
	var revision uint64

	err := s.db.View(func(txn *badger.Txn) error {
		rev, err := currentRevision(txn)
		if err != nil {
			return err
		}
		revision = rev
		return nil
	})
	if err != nil {
		return 0, err
	}

	return revision, nil
}

// List returns metadata for every stored revision in ascending
// revision order, with the current one flagged.
func (s *Store) List(ctx context.Context) ([]models.DatasetMeta, error) {
	var metas []models.DatasetMeta

	err := s.db.View(func(txn *badger.Txn) error {
		current, err := currentRevision(txn)
		if err != nil && !errors.Is(err, ErrNoCurrentDataset) {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta models.DatasetMeta
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return fmt.Errorf("unmarshal meta: %w", err)
			}

			meta.Current = meta.Revision == current
			metas = append(metas, meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return metas, nil
}

// Meta returns the metadata for one stored revision, with the current
// one flagged.
func (s *Store) Meta(ctx context.Context, revision uint64) (*models.DatasetMeta, error) {
	var meta models.DatasetMeta

	err := s.db.View(func(txn *badger.Txn) error {
		current, err := currentRevision(txn)
		if err != nil && !errors.Is(err, ErrNoCurrentDataset) {
			return err
		}

		item, err := txn.Get(metaKey(revision))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRevisionNotFound
		}
		if err != nil {
			return fmt.Errorf("get meta: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
		if err != nil {
			return fmt.Errorf("unmarshal meta: %w", err)
		}

		meta.Current = meta.Revision == current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &meta, nil
}

// Activate points the current pointer at an existing revision. Used
// to roll back to an earlier upload.
func (s *Store) Activate(ctx context.Context, revision uint64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(revKey(revision)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRevisionNotFound
		} else if err != nil {
			return fmt.Errorf("get revision: %w", err)
		}

		return txn.Set([]byte(currentKey), revisionValue(revision))
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint64("revision", revision).Msg("dataset revision activated")
	return nil
}

// Delete removes a stored revision. The current revision cannot be
// deleted; activate another one first.
func (s *Store) Delete(ctx context.Context, revision uint64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		current, err := currentRevision(txn)
		if err != nil && !errors.Is(err, ErrNoCurrentDataset) {
			return err
		}
		if revision == current {
			return ErrDeleteCurrent
		}

		if _, err := txn.Get(revKey(revision)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRevisionNotFound
		} else if err != nil {
			return fmt.Errorf("get revision: %w", err)
		}

		if err := txn.Delete(revKey(revision)); err != nil {
			return fmt.Errorf("delete revision: %w", err)
		}
		if err := txn.Delete(metaKey(revision)); err != nil {
			return fmt.Errorf("delete meta: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint64("revision", revision).Msg("dataset revision deleted")
	return nil
}

// StartGC starts a background value-log garbage collection loop. The
// loop stops when the context is canceled.
func (s *Store) StartGC(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				//nolint:errcheck // ErrNoRewrite is the common case and non-fatal
				s.db.RunValueLogGC(0.5)
			}
		}
	}()
}

// nextRevision increments the revision counter inside the caller's
// transaction.
func nextRevision(txn *badger.Txn) (uint64, error) {
	var last uint64

	item, err := txn.Get([]byte(counterKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		last = 0
	case err != nil:
		return 0, fmt.Errorf("get revision counter: %w", err)
	default:
		if err := item.Value(func(val []byte) error {
			parsed, perr := strconv.ParseUint(string(val), 10, 64)
			if perr != nil {
				return fmt.Errorf("parse revision counter: %w", perr)
			}
			last = parsed
			return nil
		}); err != nil {
			return 0, err
		}
	}

	next := last + 1
	if err := txn.Set([]byte(counterKey), revisionValue(next)); err != nil {
		return 0, fmt.Errorf("set revision counter: %w", err)
	}
	return next, nil
}

// currentRevision reads the current pointer inside the caller's
// transaction.
func currentRevision(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(currentKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNoCurrentDataset
	}
	if err != nil {
		return 0, fmt.Errorf("get current pointer: %w", err)
	}

	var revision uint64
	err = item.Value(func(val []byte) error {
		parsed, perr := strconv.ParseUint(string(val), 10, 64)
		if perr != nil {
			return fmt.Errorf("parse current pointer: %w", perr)
		}
		revision = parsed
		return nil
	})
	if err != nil {
		return 0, err
	}

	return revision, nil
}

func revKey(revision uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", revKeyPrefix, revision))
}

func metaKey(revision uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", metaKeyPrefix, revision))
}

func revisionValue(revision uint64) []byte {
	return []byte(strconv.FormatUint(revision, 10))
}
