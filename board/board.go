// Package board implements the restaurant listing view logic: category
// filtering, deterministic sorting and the infinite-scroll bookkeeping.
package board

import (
	"sort"

	"github.com/huiyeony/yogiyum/category"
	"github.com/huiyeony/yogiyum/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter keeps the items whose category matches one of the selected labels.
// An empty selection yields no items when zeroMeansEmpty, and the whole
// input otherwise (explicit "no filter" escape hatch).
func Filter(items []models.RestaurantWithStats, selected []category.Label, zeroMeansEmpty bool) []models.RestaurantWithStats {
	if len(selected) == 0 {
		if zeroMeansEmpty {
			return []models.RestaurantWithStats{}
		}
		out := make([]models.RestaurantWithStats, len(items))
		copy(out, items)
		return out
	}

	wanted := category.TranslateAll(selected)
	out := make([]models.RestaurantWithStats, 0, len(items))
	for _, item := range items {
		if _, ok := wanted[item.Category]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a sorted copy of items. Numeric keys sort descending with
// missing values treated as 0; name sorts ascending with Korean collation.
// The sort is stable, so equal keys keep their input order.
func Sort(items []models.RestaurantWithStats, key models.SortKey) []models.RestaurantWithStats {
	out := make([]models.RestaurantWithStats, len(items))
	copy(out, items)

	switch key {
	case models.SortByReviews:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReviewCount > out[j].ReviewCount
		})
	case models.SortByRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AverageRating > out[j].AverageRating
		})
	case models.SortByName:
		col := collate.New(language.Korean)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	default: // SortByLikes
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LikedCount > out[j].LikedCount
		})
	}
	return out
}

// ViewState is what the board should render, in priority order.
type ViewState int

const (
	// ViewZeroSelection asks the user to pick at least one category.
	ViewZeroSelection ViewState = iota
	ViewLoading
	ViewNoMatch
	ViewGrid
)

// Board combines a category selector, the zero-selection policy and the
// infinite-scroll state for one listing view.
type Board struct {
	Selector       *category.Selector
	ZeroMeansEmpty bool

	sentinel Sentinel
	valve    AdvanceValve
}

// New returns a board with every category selected and zeroMeansEmpty
// semantics enabled.
func New() *Board {
	return &Board{
		Selector:       category.NewSelector(nil),
		ZeroMeansEmpty: true,
	}
}

// Visible filters and sorts the upstream items for rendering.
func (b *Board) Visible(items []models.RestaurantWithStats, key models.SortKey) []models.RestaurantWithStats {
	return Sort(Filter(items, b.Selector.Selected(), b.ZeroMeansEmpty), key)
}

// State decides what to render given the visible item count.
func (b *Board) State(visibleCount int, loading bool) ViewState {
	switch {
	case b.Selector.Empty() && b.ZeroMeansEmpty:
		return ViewZeroSelection
	case loading:
		return ViewLoading
	case visibleCount == 0:
		return ViewNoMatch
	default:
		return ViewGrid
	}
}

// ObserveSentinel reports visibility of the end-of-list marker. The
// registered callback fires once per invisible-to-visible transition.
func (b *Board) ObserveSentinel(visible, loading bool) {
	b.sentinel.Observe(visible, loading)
}

// SetEndReached registers and enables the end-reached callback.
func (b *Board) SetEndReached(fn func()) {
	b.sentinel.OnEnd = fn
	b.sentinel.Enabled = fn != nil
}

// ShouldAutoAdvance reports whether the board should request one more
// upstream page because filtering emptied the visible set while upstream
// data exists. Latched so it fires at most once until the visible set
// becomes non-empty or loading starts.
func (b *Board) ShouldAutoAdvance(visibleCount, upstreamCount int, loading bool) bool {
	return b.valve.ShouldAdvance(visibleCount, upstreamCount, loading, b.sentinel.Enabled)
}
