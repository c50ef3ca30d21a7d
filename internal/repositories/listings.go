package repositories

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
	"sync"
)

var ErrPersistence = errors.New("listings persistence failed")

// Listings keeps every listing the bot has already seen in a single JSON array file.
type Listings struct {
	mu     sync.Mutex
	path   string
	rename func(oldPath, newPath string) error
}

func NewListingsRepository(path string) (*Listings, error) {
	if path == "" {
		return nil, errors.New("listings file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "can't create listings directory")
	}
	return &Listings{path: path, rename: os.Rename}, nil
}

// Load returns an empty slice when nothing was persisted yet.
func (l *Listings) Load(_ context.Context) ([]entities.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loadLocked()
}

// MergeAndPersist writes existing plus the incoming listings not yet known by hash.
// The file is replaced atomically, readers see either the old or the new state.
func (l *Listings) MergeAndPersist(_ context.Context, existing, incoming []entities.Listing) ([]entities.Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := mergeListings(existing, incoming)
	if err := l.writeLocked(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (l *Listings) loadLocked() ([]entities.Listing, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Listing{}, nil
		}
		return nil, errors.Wrapf(err, "can't read %s", l.path)
	}

	listings := []entities.Listing{}
	if err = json.Unmarshal(data, &listings); err != nil {
		return nil, errors.Wrapf(err, "can't decode %s", l.path)
	}

	// files written with an older identity scheme are rehashed so they still dedup
	for i := range listings {
		listings[i].Hash = entities.ListingHash(listings[i].ID, listings[i].Title, listings[i].PostedAt)
	}
	return listings, nil
}

func (l *Listings) writeLocked(listings []entities.Listing) error {
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return errors.Wrap(ErrPersistence, err.Error())
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(ErrPersistence, err.Error())
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(ErrPersistence, err.Error())
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(ErrPersistence, err.Error())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(ErrPersistence, err.Error())
	}

	if err = l.rename(tmpName, l.path); err != nil {
		return errors.Wrap(ErrPersistence, err.Error())
	}
	return nil
}

func mergeListings(existing, incoming []entities.Listing) []entities.Listing {
	merged := make([]entities.Listing, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, group := range [][]entities.Listing{existing, incoming} {
		for _, listing := range group {
			if _, ok := seen[listing.Hash]; ok {
				continue
			}
			seen[listing.Hash] = struct{}{}
			merged = append(merged, listing)
		}
	}
	return merged
}
