// Package category holds the fixed category label set and the selection
// state used by the restaurant board's filter badges.
package category

import (
	"github.com/huiyeony/yogiyum/models"
)

// Label is the user-facing Korean category label.
type Label string

const (
	LabelKorean   Label = "한식"
	LabelWestern  Label = "양식"
	LabelAsian    Label = "아시아음식"
	LabelJapanese Label = "일식"
	LabelChinese  Label = "중식"
	LabelStreet   Label = "분식"
	LabelCafe     Label = "카페"
	LabelBuffet   Label = "뷔페"
	LabelDessert  Label = "디저트"
	LabelBakery   Label = "베이커리"
	LabelOther    Label = "기타"
)

// canonical is the one rendering order used everywhere.
var canonical = []Label{
	LabelKorean,
	LabelWestern,
	LabelAsian,
	LabelJapanese,
	LabelChinese,
	LabelStreet,
	LabelCafe,
	LabelBuffet,
	LabelDessert,
	LabelBakery,
	LabelOther,
}

var labelToCategory = map[Label]models.RestaurantCategory{
	LabelKorean:   models.CategoryKorean,
	LabelWestern:  models.CategoryWestern,
	LabelAsian:    models.CategoryAsian,
	LabelJapanese: models.CategoryJapanese,
	LabelChinese:  models.CategoryChinese,
	LabelStreet:   models.CategoryStreet,
	LabelCafe:     models.CategoryCafe,
	LabelBuffet:   models.CategoryBuffet,
	LabelDessert:  models.CategoryDessert,
	LabelBakery:   models.CategoryBakery,
	LabelOther:    models.CategoryOther,
}

// Labels returns all labels in canonical order.
func Labels() []Label {
	out := make([]Label, len(canonical))
	copy(out, canonical)
	return out
}

// Translate maps a label onto its backend category.
func Translate(l Label) (models.RestaurantCategory, bool) {
	c, ok := labelToCategory[l]
	return c, ok
}

// TranslateAll builds the backend-category set for the given labels.
// Unknown labels are ignored.
func TranslateAll(labels []Label) map[models.RestaurantCategory]struct{} {
	set := make(map[models.RestaurantCategory]struct{}, len(labels))
	for _, l := range labels {
		if c, ok := labelToCategory[l]; ok {
			set[c] = struct{}{}
		}
	}
	return set
}

// Selector tracks which category labels are currently selected. A fresh
// selector has every label selected. The empty selection is a real state,
// distinct from all-selected.
type Selector struct {
	selected map[Label]bool
	onChange func([]Label)
}

// NewSelector returns a selector with the full label set selected.
// onChange, when non-nil, is called with the new selection (canonical
// order) after every mutation.
func NewSelector(onChange func([]Label)) *Selector {
	s := &Selector{
		selected: make(map[Label]bool, len(canonical)),
		onChange: onChange,
	}
	for _, l := range canonical {
		s.selected[l] = true
	}
	return s
}

// Toggle flips membership of one label.
func (s *Selector) Toggle(l Label) {
	if _, known := labelToCategory[l]; !known {
		return
	}
	if s.selected[l] {
		delete(s.selected, l)
	} else {
		s.selected[l] = true
	}
	s.emit()
}

// ToggleAll clears the selection when everything is selected, and selects
// everything otherwise. A binary toggle, not an idempotent add.
func (s *Selector) ToggleAll() {
	if s.AllSelected() {
		s.selected = make(map[Label]bool, len(canonical))
	} else {
		for _, l := range canonical {
			s.selected[l] = true
		}
	}
	s.emit()
}

// Selected returns the current selection in canonical order.
func (s *Selector) Selected() []Label {
	out := make([]Label, 0, len(s.selected))
	for _, l := range canonical {
		if s.selected[l] {
			out = append(out, l)
		}
	}
	return out
}

func (s *Selector) AllSelected() bool {
	return len(s.selected) == len(canonical)
}

func (s *Selector) Empty() bool {
	return len(s.selected) == 0
}

func (s *Selector) emit() {
	if s.onChange != nil {
		s.onChange(s.Selected())
	}
}
