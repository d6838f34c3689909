package board

// Sentinel turns raw visibility reports for the end-of-list marker into
// edge-triggered end-reached events: the callback fires once when the
// marker becomes visible, not on every report while it stays visible.
type Sentinel struct {
	Enabled bool
	OnEnd   func()

	visible bool
}

// Observe records the marker's current visibility. Fires OnEnd on the
// invisible-to-visible transition while not loading.
func (s *Sentinel) Observe(visible, loading bool) {
	wasVisible := s.visible
	s.visible = visible

	if !s.Enabled || s.OnEnd == nil {
		return
	}
	if visible && !wasVisible && !loading {
		s.OnEnd()
	}
}

// AdvanceValve guards the board's auto-advance heuristic: when filtering
// empties the visible set even though upstream data exists, one extra page
// may be requested. The latch resets only when the visible set becomes
// non-empty or loading starts.
type AdvanceValve struct {
	latched bool
}

func (v *AdvanceValve) ShouldAdvance(visibleCount, upstreamCount int, loading, infinite bool) bool {
	if visibleCount > 0 || loading {
		v.latched = false
		return false
	}
	if !infinite || upstreamCount == 0 || v.latched {
		return false
	}
	v.latched = true
	return true
}
