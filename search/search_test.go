package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/huiyeony/yogiyum/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves deterministic pages out of a fixed row set.
type fakeBackend struct {
	rows     []models.RestaurantWithStats
	fetchErr error
	countErr error
	fetches  []Query
}

func (b *fakeBackend) FetchPage(ctx context.Context, q Query) ([]models.RestaurantWithStats, error) {
	b.fetches = append(b.fetches, q)
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(b.rows) {
		return []models.RestaurantWithStats{}, nil
	}
	end := start + q.PageSize
	if end > len(b.rows) {
		end = len(b.rows)
	}
	return b.rows[start:end], nil
}

func (b *fakeBackend) CountMatching(ctx context.Context, text string) (int64, error) {
	if b.countErr != nil {
		return 0, b.countErr
	}
	return int64(len(b.rows)), nil
}

func rowsN(n int) []models.RestaurantWithStats {
	out := make([]models.RestaurantWithStats, n)
	for i := range out {
		out[i] = models.RestaurantWithStats{ID: uint(i + 1), Name: fmt.Sprintf("식당 %d", i+1)}
	}
	return out
}

func TestSubmit_LoadsFirstPageAndMaxPage(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)

	require.NoError(t, c.Submit(context.Background(), ""))

	assert.Equal(t, 1, c.Page())
	assert.Equal(t, 3, c.MaxPage())
	assert.Len(t, c.Results(), 2)
	assert.False(t, c.Loading())
}

func TestSubmit_ReplacesResults(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)

	require.NoError(t, c.Submit(context.Background(), ""))
	require.NoError(t, c.LoadMore(context.Background()))
	require.Len(t, c.Results(), 4)

	// A new submit resets to exactly the first page, never stale + new.
	require.NoError(t, c.Submit(context.Background(), "국밥"))
	assert.Equal(t, 1, c.Page())
	assert.Len(t, c.Results(), 2)
	assert.Equal(t, "국밥", c.Text())
}

func TestChangeSort_ResetsPageAndRefetches(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)

	require.NoError(t, c.Submit(context.Background(), "면"))
	require.NoError(t, c.LoadMore(context.Background()))

	require.NoError(t, c.ChangeSort(context.Background(), models.SortByName))

	assert.Equal(t, 1, c.Page())
	assert.Equal(t, models.SortByName, c.Sort())
	assert.Equal(t, "면", c.Text()) // text survives a sort change
	assert.Len(t, c.Results(), 2)
	last := backend.fetches[len(backend.fetches)-1]
	assert.Equal(t, models.SortByName, last.Sort)
}

func TestLoadMore_AppendsWithoutReordering(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)
	require.NoError(t, c.Submit(context.Background(), ""))

	before := c.Results()
	require.NoError(t, c.LoadMore(context.Background()))
	after := c.Results()

	require.Len(t, after, 4)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, 2, c.Page())
}

func TestLoadMore_StopsAtMaxPage(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(3)}
	c := NewController(backend, 2)
	require.NoError(t, c.Submit(context.Background(), ""))

	require.NoError(t, c.LoadMore(context.Background()))
	require.Len(t, c.Results(), 3)
	fetchesSoFar := len(backend.fetches)

	// Page 2 of 2 is loaded; further calls must not hit the backend.
	require.NoError(t, c.LoadMore(context.Background()))
	assert.Len(t, backend.fetches, fetchesSoFar)
	assert.Equal(t, 2, c.Page())
}

func TestSubmit_FetchFailureDegradesToEmpty(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)
	require.NoError(t, c.Submit(context.Background(), ""))
	require.NotEmpty(t, c.Results())

	backend.fetchErr = errors.New("connection refused")
	err := c.Submit(context.Background(), "곱창")

	require.Error(t, err)
	assert.Empty(t, c.Results())
	assert.False(t, c.Loading())
}

func TestLoadMore_FailureKeepsLoadedRowsAndPage(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5)}
	c := NewController(backend, 2)
	require.NoError(t, c.Submit(context.Background(), ""))

	backend.fetchErr = errors.New("timeout")
	err := c.LoadMore(context.Background())

	require.Error(t, err)
	assert.Len(t, c.Results(), 2)
	assert.Equal(t, 1, c.Page())
}

// stalenessBackend blocks the fetch for the "slow" text until released,
// so a newer request can overtake it.
type stalenessBackend struct {
	started chan struct{}
	release chan struct{}
}

func (b *stalenessBackend) FetchPage(ctx context.Context, q Query) ([]models.RestaurantWithStats, error) {
	if q.Text == "slow" {
		close(b.started)
		<-b.release
		return []models.RestaurantWithStats{{ID: 100, Name: "stale"}}, nil
	}
	return []models.RestaurantWithStats{{ID: 200, Name: "fresh"}}, nil
}

func (b *stalenessBackend) CountMatching(ctx context.Context, text string) (int64, error) {
	return 1, nil
}

func TestSubmit_StaleResponseIsDiscarded(t *testing.T) {
	backend := &stalenessBackend{started: make(chan struct{}), release: make(chan struct{})}
	c := NewController(backend, 2)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), "slow") }()
	<-backend.started

	// A newer submit supersedes the in-flight one.
	require.NoError(t, c.Submit(context.Background(), "fast"))

	close(backend.release)
	require.NoError(t, <-done)

	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, uint(200), results[0].ID)
	assert.Equal(t, "fast", c.Text())
}

func TestController_CountFailureFallsBackToOnePage(t *testing.T) {
	backend := &fakeBackend{rows: rowsN(5), countErr: errors.New("boom")}
	c := NewController(backend, 2)

	require.NoError(t, c.Submit(context.Background(), ""))

	assert.Equal(t, 1, c.MaxPage())
	assert.Len(t, c.Results(), 2)
}
