package dashboard

// Reconcile returns a LayoutSet in which every widget has exactly one
// placement in every known breakpoint and no placement references a widget
// absent from the list. Missing placements are synthesized with Placement
// using the widget's index in the list, so the result is deterministic and
// Reconcile is idempotent.
//
// The second return reports whether anything was added or removed; callers
// persist the corrected set only in that case.
func Reconcile(widgets []WidgetRef, set LayoutSet) (LayoutSet, bool) {
	changed := false

	present := make(map[string]struct{}, len(widgets))
	for _, w := range widgets {
		present[w.ID] = struct{}{}
	}

	// Breakpoints outside the known list are dropped along with orphans.
	for name := range set {
		if _, ok := Columns[name]; !ok {
			changed = true
		}
	}

	out := make(LayoutSet, len(Breakpoints))
	for _, bp := range Breakpoints {
		items, ok := set[bp]
		if !ok {
			changed = true
		}

		kept := make([]LayoutItem, 0, len(widgets))
		have := make(map[string]struct{}, len(items))
		for _, it := range items {
			if _, ok := present[it.ID]; !ok {
				changed = true
				continue
			}
			if _, dup := have[it.ID]; dup {
				changed = true
				continue
			}
			have[it.ID] = struct{}{}
			kept = append(kept, it)
		}

		for i, w := range widgets {
			if _, ok := have[w.ID]; ok {
				continue
			}
			kept = append(kept, Placement(bp, w.ID, i))
			changed = true
		}

		out[bp] = kept
	}

	return out, changed
}
