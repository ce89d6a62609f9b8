package dashboard

// LayoutItem is a widget's rectangular position and size within one
// breakpoint's grid.
type LayoutItem struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW int    `json:"minW"`
	MinH int    `json:"minH"`
	MaxW *int   `json:"maxW,omitempty"`
	MaxH *int   `json:"maxH,omitempty"`
}

// LayoutSet maps a breakpoint name to its ordered placements.
type LayoutSet map[string][]LayoutItem

// WidgetRef is the minimal identity/type pair reconciliation works against.
type WidgetRef struct {
	ID   string
	Type string
}

// Placement synthesizes a default LayoutItem for the widget at the given
// widget-list index in the given breakpoint.
//
// Desktop and tablet breakpoints pack fixed-width cells left-to-right and
// wrap; mobile breakpoints stack a single pinned-size column.
func Placement(breakpoint, widgetID string, index int) LayoutItem {
	if Mobile(breakpoint) {
		w, h := MobileW, MobileH
		return LayoutItem{
			ID:   widgetID,
			X:    0,
			Y:    index * MobileH,
			W:    w,
			H:    h,
			MinW: w,
			MinH: h,
			MaxW: &w,
			MaxH: &h,
		}
	}

	perRow := Columns[breakpoint] / CellWidth
	if perRow < 1 {
		perRow = 1
	}
	return LayoutItem{
		ID:   widgetID,
		X:    (index % perRow) * CellWidth,
		Y:    (index / perRow) * CellHeight,
		W:    CellWidth,
		H:    CellHeight,
		MinW: DefaultMinW,
		MinH: DefaultMinH,
	}
}
