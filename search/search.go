// Package search owns the listing query state: search text, sort key and
// page cursor. Submit and ChangeSort reset to page 1 and replace the
// loaded rows; LoadMore appends the next page and never reorders what is
// already loaded.
package search

import (
	"context"
	"sync"

	"github.com/huiyeony/yogiyum/models"

	"github.com/sirupsen/logrus"
)

type State int

const (
	StateReady State = iota
	StateLoading
)

// Query is one paged fetch against the stats view. Page starts at 1.
type Query struct {
	Text     string
	Sort     models.SortKey
	Page     int
	PageSize int
}

// Backend is the data source for paged restaurant rows. FetchPage must
// order by the sort column (descending, except name ascending) with id
// ascending as tie-break, so pages never overlap on ties. CountMatching
// uses the same text predicate as FetchPage.
type Backend interface {
	FetchPage(ctx context.Context, q Query) ([]models.RestaurantWithStats, error)
	CountMatching(ctx context.Context, text string) (int64, error)
}

// Controller drives paged fetching. Responses are tagged with a monotonic
// sequence number; a slow response that arrives after a newer request has
// been issued is discarded instead of overwriting fresher state.
type Controller struct {
	mu sync.Mutex

	backend  Backend
	pageSize int

	text    string
	sort    models.SortKey
	page    int
	maxPage int
	state   State
	seq     uint64

	results []models.RestaurantWithStats
}

func NewController(backend Backend, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Controller{
		backend:  backend,
		pageSize: pageSize,
		sort:     models.SortByLikes,
		page:     1,
		maxPage:  1,
	}
}

// Submit resets to page 1 for the new search text and replaces the
// loaded rows with the first page of results.
func (c *Controller) Submit(ctx context.Context, text string) error {
	c.mu.Lock()
	sortKey := c.sort
	c.mu.Unlock()
	return c.refresh(ctx, text, sortKey)
}

// ChangeSort resets to page 1 and re-fetches with the new ordering.
func (c *Controller) ChangeSort(ctx context.Context, key models.SortKey) error {
	c.mu.Lock()
	text := c.text
	c.mu.Unlock()
	return c.refresh(ctx, text, key)
}

func (c *Controller) refresh(ctx context.Context, text string, key models.SortKey) error {
	c.mu.Lock()
	c.text = text
	c.sort = key
	c.page = 1
	c.state = StateLoading
	c.seq++
	seq := c.seq
	q := Query{Text: text, Sort: key, Page: 1, PageSize: c.pageSize}
	c.mu.Unlock()

	rows, err := c.backend.FetchPage(ctx, q)
	total, countErr := c.backend.CountMatching(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer submit/sort-change superseded this fetch.
		return nil
	}
	c.state = StateReady
	if err != nil {
		// Read failures degrade to an empty result, they never keep
		// stale rows around.
		logrus.WithError(err).WithField("text", text).Error("restaurant page fetch failed")
		c.results = nil
		c.maxPage = 1
		return err
	}
	c.results = rows
	c.maxPage = c.computeMaxPage(total, countErr)
	return nil
}

// LoadMore appends the next page to the loaded rows. A no-op while a
// fetch is in flight or when the last known page has been reached.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoading || c.page >= c.maxPage {
		c.mu.Unlock()
		return nil
	}
	c.page++
	c.state = StateLoading
	c.seq++
	seq := c.seq
	q := Query{Text: c.text, Sort: c.sort, Page: c.page, PageSize: c.pageSize}
	c.mu.Unlock()

	rows, err := c.backend.FetchPage(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return nil
	}
	c.state = StateReady
	if err != nil {
		logrus.WithError(err).WithField("page", q.Page).Error("restaurant page fetch failed")
		c.page = q.Page - 1
		return err
	}
	c.results = append(c.results, rows...)
	return nil
}

func (c *Controller) computeMaxPage(total int64, countErr error) int {
	if countErr != nil {
		logrus.WithError(countErr).Error("restaurant count query failed")
		return 1
	}
	maxPage := int((total + int64(c.pageSize) - 1) / int64(c.pageSize))
	if maxPage < 1 {
		maxPage = 1
	}
	return maxPage
}

// Results returns a copy of the loaded rows.
func (c *Controller) Results() []models.RestaurantWithStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.RestaurantWithStats, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) MaxPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxPage
}

func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Controller) Sort() models.SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateLoading
}
