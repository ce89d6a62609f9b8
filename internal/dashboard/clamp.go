package dashboard

// Clamp normalizes a LayoutItem so the size invariants hold: w >= minW,
// h >= minH, non-negative coordinates, and on mobile breakpoints the size
// pinned via maxW/maxH.
func Clamp(breakpoint string, it LayoutItem) LayoutItem {
	if it.MinW < 1 {
		it.MinW = 1
	}
	if it.MinH < 1 {
		it.MinH = 1
	}
	if it.W < it.MinW {
		it.W = it.MinW
	}
	if it.H < it.MinH {
		it.H = it.MinH
	}
	if it.MaxW != nil && it.W > *it.MaxW {
		it.W = *it.MaxW
	}
	if it.MaxH != nil && it.H > *it.MaxH {
		it.H = *it.MaxH
	}
	if it.X < 0 {
		it.X = 0
	}
	if it.Y < 0 {
		it.Y = 0
	}
	if Mobile(breakpoint) {
		w, h := it.W, it.H
		it.MaxW = &w
		it.MaxH = &h
	}
	return it
}

// ClampSet applies Clamp to every placement in the set.
func ClampSet(set LayoutSet) LayoutSet {
	out := make(LayoutSet, len(set))
	for bp, items := range set {
		clamped := make([]LayoutItem, len(items))
		for i, it := range items {
			clamped[i] = Clamp(bp, it)
		}
		out[bp] = clamped
	}
	return out
}
