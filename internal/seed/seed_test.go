package seed

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	badgerdb "expertise-marketplace/internal/database/badger"
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = log.New(io.Discard, "", 0)

func TestDefaults(t *testing.T) {
	experts, err := Defaults()
	require.NoError(t, err)
	require.Len(t, experts, 6)

	emily := experts[2]
	assert.Equal(t, "3", emily.ID)
	assert.Equal(t, "Housing Services Manager", emily.Title)
	assert.Contains(t, emily.Skills, "HUD Regulations")
	assert.Equal(t, 19, emily.Endorsements["HUD Regulations"])
	assert.Equal(t, []string{expert.FlairThoughtLeader}, emily.Flair)
}

func TestLoad_Rejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			name: "duplicate id",
			doc: `
- {id: "1", name: A, title: T, email: a@x.com, skills: [X]}
- {id: "1", name: B, title: T, email: b@x.com, skills: [Y]}
`,
		},
		{name: "missing id", doc: `- {name: A, title: T, email: a@x.com, skills: [X]}`},
		{name: "no skills", doc: `- {id: "1", name: A, title: T, email: a@x.com, skills: []}`},
		{name: "unknown flair", doc: `- {id: "1", name: A, title: T, email: a@x.com, skills: [X], flair: [famous]}`},
		{name: "negative endorsement", doc: `- {id: "1", name: A, title: T, email: a@x.com, skills: [X], endorsements: {X: -1}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidSeed)
		})
	}
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	_, err := Load(strings.NewReader(`- {id: "1", name: A, title: T, email: a@x.com, skills: [X], rating: 5}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSeed)
}

func TestLoad_Empty(t *testing.T) {
	experts, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, experts)
}

func TestRunner_UpsertsIdempotently(t *testing.T) {
	backend, err := badgerdb.Open("", quiet)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	repo, err := repository.NewBadgerExpertRepository(backend, "Experts")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	experts, err := Defaults()
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := Runner{Workers: 3, Logger: quiet, Now: func() time.Time { return at }}

	for range 2 {
		report, err := r.Run(context.Background(), repo, experts)
		require.NoError(t, err)
		assert.Equal(t, Report{Upserted: 6}, report)
	}

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 6)

	got, err := repo.FindByID(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Patricia Williams", got.Name)
	assert.Equal(t, expert.StatusActive, got.Status)
	assert.True(t, at.Equal(got.CreatedAt))
}

type flakyRepo struct {
	expert.Repository
	mu   sync.Mutex
	seen []string
}

func (f *flakyRepo) Upsert(_ context.Context, e expert.Expert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, e.ID)
	if e.ID == "2" {
		return errors.New("write refused")
	}
	return nil
}

func TestRunner_ContinuesPastFailures(t *testing.T) {
	experts, err := Defaults()
	require.NoError(t, err)

	repo := &flakyRepo{}
	report, err := Runner{Workers: 2, Logger: quiet}.Run(context.Background(), repo, experts)

	require.NoError(t, err)
	assert.Equal(t, Report{Upserted: 5, Failed: 1}, report)
	assert.Len(t, repo.seen, 6)
}

type countingCache struct {
	mu      sync.Mutex
	gen     int64
	incrErr error
	deleted []string
}

func (c *countingCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (c *countingCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (c *countingCache) Incr(context.Context, string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.gen++
	return c.gen, nil
}

func (c *countingCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	return nil
}

func TestRunner_RetiresCachedListings(t *testing.T) {
	experts, err := Defaults()
	require.NoError(t, err)

	c := &countingCache{gen: 4}
	report, err := Runner{Workers: 2, Logger: quiet, Cache: c}.Run(context.Background(), &flakyRepo{}, experts)

	require.NoError(t, err)
	assert.Equal(t, 5, report.Upserted)
	assert.EqualValues(t, 5, c.gen)
	assert.Equal(t, []string{"experts:v4:*"}, c.deleted)
}

func TestRunner_CacheFallsBackToPatternDelete(t *testing.T) {
	experts, err := Defaults()
	require.NoError(t, err)

	c := &countingCache{incrErr: errors.New("down")}
	_, err = Runner{Workers: 2, Logger: quiet, Cache: c}.Run(context.Background(), &flakyRepo{}, experts)

	require.NoError(t, err)
	assert.Equal(t, []string{"experts:v*"}, c.deleted)
}

func TestRunner_NothingWrittenKeepsCache(t *testing.T) {
	c := &countingCache{}
	report, err := Runner{Logger: quiet, Cache: c}.Run(context.Background(), &flakyRepo{}, nil)

	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
	assert.Zero(t, c.gen)
	assert.Empty(t, c.deleted)
}

func TestPrepare_FillsDefaults(t *testing.T) {
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	e := prepare(expert.Expert{ID: " 9 ", Name: "A", Title: "T", Department: "D", Affiliate: "Aff"}, func() time.Time { return at })

	assert.Equal(t, "9", e.ID)
	assert.Equal(t, "A is a T in D at Aff.", e.Bio)
	assert.Equal(t, expert.StatusActive, e.Status)
	assert.Equal(t, at, e.CreatedAt)
}
