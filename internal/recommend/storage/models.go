// Reelrec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrModelNotFound is returned when no stored model matches.
var ErrModelNotFound = errors.New("model not found")

const keyPrefix = "model:"

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the algorithm name (e.g., "item_knn", "als").
	Name string `json:"name"`

	// Version is the model version (monotonically increasing per name).
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// RatingCount is the number of ratings used for training.
	RatingCount int `json:"rating_count"`

	// MovieCount is the number of rated movies.
	MovieCount int `json:"movie_count"`

	// UserCount is the number of users.
	UserCount int `json:"user_count"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// Store manages model persistence in a Badger database.
type Store struct {
	db     *badger.DB
	ownsDB bool
}

// Open opens (or creates) a Badger database at dir and returns a store
// that closes it on Close.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return &Store{db: db, ownsDB: true}, nil
}

// NewStore wraps an already open database. Close does not close it.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the database if the store opened it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

func latestKey(name string) []byte {
	return []byte(keyPrefix + name + ":latest")
}

func metaKey(name string, version int) []byte {
	return []byte(fmt.Sprintf("%s%s:meta:%010d", keyPrefix, name, version))
}

func dataKey(name string, version int) []byte {
	return []byte(fmt.Sprintf("%s%s:data:%010d", keyPrefix, name, version))
}

// Save stores data under the next version of name and returns that version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, data interface{}, meta ModelMetadata) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return 0, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return 0, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return 0, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	var version int
	err := s.db.Update(func(txn *badger.Txn) error {
		latest, err := readLatest(txn, name)
		if err != nil && !errors.Is(err, ErrModelNotFound) {
			return err
		}
		version = latest + 1
		meta.Version = version

		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if err := txn.Set(dataKey(name, version), compressed.Bytes()); err != nil {
			return fmt.Errorf("set model data: %w", err)
		}
		if err := txn.Set(metaKey(name, version), metaJSON); err != nil {
			return fmt.Errorf("set model metadata: %w", err)
		}
		return txn.Set(latestKey(name), []byte(strconv.Itoa(version)))
	})
	if err != nil {
		return 0, err
	}
	return version, nil
}

// Load decodes a model into target. If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var (
		meta       ModelMetadata
		compressed []byte
	)
	err := s.db.View(func(txn *badger.Txn) error {
		if version == 0 {
			v, err := readLatest(txn, name)
			if err != nil {
				return err
			}
			version = v
		}

		if err := readJSON(txn, metaKey(name, version), &meta); err != nil {
			return err
		}
		item, err := txn.Get(dataKey(name, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s v%d data: %w", name, version, ErrModelNotFound)
		}
		if err != nil {
			return fmt.Errorf("get model data: %w", err)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != meta.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", meta.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &meta, nil
}

// LatestVersion returns the latest version number for a model.
func (s *Store) LatestVersion(name string) (int, bool) {
	var version int
	err := s.db.View(func(txn *badger.Txn) error {
		v, err := readLatest(txn, name)
		version = v
		return err
	})
	return version, err == nil
}

// ListModels returns metadata for every stored version, ordered by name
// then version.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	var models []ModelMetadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			item := it.Item()
			if !strings.Contains(string(item.Key()), ":meta:") {
				continue
			}
			var meta ModelMetadata
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			}); err != nil {
				return fmt.Errorf("decode metadata %s: %w", item.Key(), err)
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(models, func(a, b int) bool {
		if models[a].Name != models[b].Name {
			return models[a].Name < models[b].Name
		}
		return models[a].Version < models[b].Version
	})
	return models, nil
}

// Delete removes a specific model version. Deleting the latest version
// moves the latest pointer to the highest remaining version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(name, version)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s v%d: %w", name, version, ErrModelNotFound)
		}
		if err := txn.Delete(metaKey(name, version)); err != nil {
			return fmt.Errorf("delete metadata: %w", err)
		}
		if err := txn.Delete(dataKey(name, version)); err != nil {
			return fmt.Errorf("delete data: %w", err)
		}

		remaining := versionsIn(txn, name)
		if len(remaining) == 0 {
			return txn.Delete(latestKey(name))
		}
		return txn.Set(latestKey(name), []byte(strconv.Itoa(remaining[len(remaining)-1])))
	})
}

// Prune removes old model versions, keeping only the latest keep versions.
// It returns how many versions were removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		versions := versionsIn(txn, name)
		if len(versions) <= keep {
			return nil
		}
		for _, v := range versions[:len(versions)-keep] {
			if err := txn.Delete(metaKey(name, v)); err != nil {
				return fmt.Errorf("delete metadata v%d: %w", v, err)
			}
			if err := txn.Delete(dataKey(name, v)); err != nil {
				return fmt.Errorf("delete data v%d: %w", v, err)
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func readLatest(txn *badger.Txn, name string) (int, error) {
	item, err := txn.Get(latestKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("no model found for %s: %w", name, ErrModelNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get latest version: %w", err)
	}
	var version int
	err = item.Value(func(val []byte) error {
		v, err := strconv.Atoi(string(val))
		version = v
		return err
	})
	return version, err
}

func readJSON(txn *badger.Txn, key []byte, target interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, ErrModelNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, target)
	})
}

// versionsIn returns the stored versions of name in ascending order.
func versionsIn(txn *badger.Txn, name string) []int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(keyPrefix + name + ":meta:")
	var versions []int
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		v, err := strconv.Atoi(strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		if err == nil {
			versions = append(versions, v)
		}
	}
	return versions
}
