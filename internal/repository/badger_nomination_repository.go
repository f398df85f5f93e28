package repository

import (
	"context"
	"encoding/json"
	"fmt"

	badgerdb "expertise-marketplace/internal/database/badger"
	"expertise-marketplace/internal/domain/expert"

	"github.com/dgraph-io/badger/v4"
)

type BadgerNominationRepository struct {
	backend *badgerdb.Backend
	seq     *badger.Sequence
	prefix  string
}

func NewBadgerNominationRepository(backend *badgerdb.Backend, collection string) (*BadgerNominationRepository, error) {
	seq, err := backend.Sequence(collection + "_seq")
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence for %s: %w", collection, err)
	}
	return &BadgerNominationRepository{backend: backend, seq: seq, prefix: collection + "/"}, nil
}

func (r *BadgerNominationRepository) Close() error {
	return r.seq.Release()
}

// EnsureCollection is a no-op: badger key prefixes need no setup.
func (r *BadgerNominationRepository) EnsureCollection(_ context.Context) error {
	return nil
}

func (r *BadgerNominationRepository) Insert(_ context.Context, n expert.Nomination) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return err
	}
	next, err := r.seq.Next()
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%s%020d", r.prefix, next))
	if err := r.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(key, doc)
	}); err != nil {
		return fmt.Errorf("failed to insert nomination: %w", err)
	}
	return nil
}

var _ expert.NominationRepository = (*BadgerNominationRepository)(nil)
