package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "expertise-marketplace/internal/database/badger"
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/domain/matching"

	"github.com/dgraph-io/badger/v4"
)

var ErrDuplicateID = errors.New("record id already exists")

// BadgerExpertRepository stores experts as JSON under <collection>/<seq> so a
// prefix scan returns them in insertion order. <collection>_id/<id> points at
// the record key.
type BadgerExpertRepository struct {
	backend *badgerdb.Backend
	seq     *badger.Sequence
	prefix  string
	idIndex string
}

func NewBadgerExpertRepository(backend *badgerdb.Backend, collection string) (*BadgerExpertRepository, error) {
	seq, err := backend.Sequence(collection + "_seq")
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence for %s: %w", collection, err)
	}
	return &BadgerExpertRepository{
		backend: backend,
		seq:     seq,
		prefix:  collection + "/",
		idIndex: collection + "_id/",
	}, nil
}

// Close releases the unused part of the leased sequence range.
func (r *BadgerExpertRepository) Close() error {
	return r.seq.Release()
}

func (r *BadgerExpertRepository) List(ctx context.Context) ([]expert.Expert, error) {
	return r.scan(ctx, nil)
}

func (r *BadgerExpertRepository) FindByID(_ context.Context, id string) (expert.Expert, error) {
	var out expert.Expert
	err := r.backend.View(func(tx *badger.Txn) error {
		key, err := r.recordKey(tx, id)
		if err != nil {
			return err
		}
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return expert.Expert{}, expert.ErrNotFound
	}
	if err != nil {
		return expert.Expert{}, err
	}
	return out, nil
}

func (r *BadgerExpertRepository) FindByEmail(ctx context.Context, email string) (expert.Expert, error) {
	found, err := r.scan(ctx, func(e expert.Expert) bool { return e.Email == email })
	if err != nil {
		return expert.Expert{}, err
	}
	if len(found) == 0 {
		return expert.Expert{}, expert.ErrNotFound
	}
	return found[0], nil
}

func (r *BadgerExpertRepository) Search(ctx context.Context, query string) ([]expert.Expert, error) {
	all, err := r.scan(ctx, nil)
	if err != nil {
		return nil, err
	}
	matches := matching.FilterByText(all, query)
	out := make([]expert.Expert, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Expert)
	}
	return out, nil
}

func (r *BadgerExpertRepository) Insert(_ context.Context, e expert.Expert) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	n, err := r.seq.Next()
	if err != nil {
		return err
	}
	key := r.seqKey(n)

	err = r.backend.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get([]byte(r.idIndex + e.ID)); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, doc); err != nil {
			return err
		}
		return tx.Set([]byte(r.idIndex+e.ID), key)
	})
	if err != nil {
		return fmt.Errorf("failed to insert expert: %w", err)
	}
	return nil
}

// Upsert replaces an existing record in place, keeping its position.
func (r *BadgerExpertRepository) Upsert(_ context.Context, e expert.Expert) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}

	err = r.backend.Update(func(tx *badger.Txn) error {
		key, err := r.recordKey(tx, e.ID)
		if errors.Is(err, badger.ErrKeyNotFound) {
			n, err := r.seq.Next()
			if err != nil {
				return err
			}
			key = r.seqKey(n)
			if err := tx.Set([]byte(r.idIndex+e.ID), key); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return tx.Set(key, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert expert: %w", err)
	}
	return nil
}

func (r *BadgerExpertRepository) recordKey(tx *badger.Txn, id string) ([]byte, error) {
	item, err := tx.Get([]byte(r.idIndex + id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (r *BadgerExpertRepository) seqKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", r.prefix, n))
}

func (r *BadgerExpertRepository) scan(ctx context.Context, keep func(expert.Expert) bool) ([]expert.Expert, error) {
	out := make([]expert.Expert, 0)
	err := r.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(r.prefix)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e expert.Expert
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			if keep == nil || keep(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ expert.Repository = (*BadgerExpertRepository)(nil)
