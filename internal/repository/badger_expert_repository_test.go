package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	badgerdb "expertise-marketplace/internal/database/badger"
	"expertise-marketplace/internal/domain/expert"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBadgerBackend(t *testing.T) *badgerdb.Backend {
	t.Helper()
	backend, err := badgerdb.Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func newBadgerExperts(t *testing.T) *BadgerExpertRepository {
	t.Helper()
	repo, err := NewBadgerExpertRepository(newBadgerBackend(t), "Experts")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleExpert(id, name, email string, skills ...string) expert.Expert {
	return expert.Expert{
		ID:         id,
		Name:       name,
		Title:      "Analyst",
		Department: "Operations",
		Affiliate:  "Org",
		Skills:     skills,
		Email:      email,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:     expert.StatusActive,
	}
}

func TestBadgerExpertRepository_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerExperts(t)

	for _, e := range []expert.Expert{
		sampleExpert("expert-c", "Carol", "carol@x", "Grants"),
		sampleExpert("expert-a", "Alice", "alice@x", "Housing"),
		sampleExpert("expert-b", "Bob", "bob@x", "Youth"),
	} {
		require.NoError(t, repo.Insert(ctx, e))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "expert-c", got[0].ID)
	assert.Equal(t, "expert-a", got[1].ID)
	assert.Equal(t, "expert-b", got[2].ID)
}

func TestBadgerExpertRepository_ListEmpty(t *testing.T) {
	got, err := newBadgerExperts(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBadgerExpertRepository_PointLookups(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerExperts(t)
	want := sampleExpert("expert-1", "Alice", "alice@x", "Housing", "Grants")
	want.Endorsements = map[string]int{"Housing": 3}
	require.NoError(t, repo.Insert(ctx, want))

	byID, err := repo.FindByID(ctx, "expert-1")
	require.NoError(t, err)
	assert.Equal(t, want, byID)

	byEmail, err := repo.FindByEmail(ctx, "alice@x")
	require.NoError(t, err)
	assert.Equal(t, "expert-1", byEmail.ID)

	_, err = repo.FindByID(ctx, "expert-404")
	assert.True(t, errors.Is(err, expert.ErrNotFound))

	_, err = repo.FindByEmail(ctx, "ALICE@x")
	assert.True(t, errors.Is(err, expert.ErrNotFound), "email lookup is exact")
}

func TestBadgerExpertRepository_InsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerExperts(t)
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-1", "Alice", "alice@x", "Housing")))

	err := repo.Insert(ctx, sampleExpert("expert-1", "Other", "other@x", "Youth"))
	assert.True(t, errors.Is(err, ErrDuplicateID))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBadgerExpertRepository_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerExperts(t)
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-1", "Alice", "alice@x", "Housing")))
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-2", "Bob", "bob@x", "Youth")))

	updated := sampleExpert("expert-1", "Alice Updated", "alice@x", "Housing", "Policy")
	require.NoError(t, repo.Upsert(ctx, updated))
	require.NoError(t, repo.Upsert(ctx, sampleExpert("expert-3", "Cleo", "cleo@x", "Outreach")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alice Updated", all[0].Name)
	assert.Equal(t, "expert-2", all[1].ID)
	assert.Equal(t, "expert-3", all[2].ID)
}

func TestBadgerExpertRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := newBadgerExperts(t)
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-1", "Alice", "alice@x", "Housing Policy")))
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-2", "Bob", "bob@x", "Youth")))
	require.NoError(t, repo.Insert(ctx, sampleExpert("expert-3", "Housley", "h@x", "Grants")))

	got, err := repo.Search(ctx, "hous")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "expert-1", got[0].ID)
	assert.Equal(t, "expert-3", got[1].ID)

	got, err = repo.Search(ctx, "YOUTH")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "expert-2", got[0].ID)

	got, err = repo.Search(ctx, "alice@x")
	require.NoError(t, err)
	assert.Empty(t, got, "email is not a searched field")
}

// storedNominations reads back every nomination under the repo prefix in key order.
func storedNominations(t *testing.T, repo *BadgerNominationRepository) []expert.Nomination {
	t.Helper()
	var out []expert.Nomination
	err := repo.backend.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(repo.prefix)
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var n expert.Nomination
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			out = append(out, n)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestBadgerNominationRepository_InsertKeepsSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewBadgerNominationRepository(newBadgerBackend(t), "Nominations")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.EnsureCollection(ctx))
	first := expert.Nomination{
		ID:          "nom-1",
		Experts:     []expert.NominatedExpertRef{{ID: "expert-1", Name: "Alice"}, {ID: "expert-2", Name: "Bob"}},
		SubmittedBy: expert.AnonymousSubmitter,
		SubmittedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:      expert.NominationPending,
	}
	second := first
	second.ID = "nom-2"
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	got := storedNominations(t, repo)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, "nom-2", got[1].ID)
}
