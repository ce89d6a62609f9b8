package dashboard

// Responsive breakpoints, widest first. Each has its own column count and
// its own placement list inside a LayoutSet.
var Breakpoints = []string{"lg", "md", "sm", "xs", "xxs"}

// Columns is the grid column count per breakpoint.
var Columns = map[string]int{
	"lg":  12,
	"md":  10,
	"sm":  6,
	"xs":  4,
	"xxs": 2,
}

// Synthesized placement defaults
const (
	// CellWidth is the fixed cell width used when packing desktop/tablet
	// breakpoints; maxItemsPerRow = cols / CellWidth (minimum 1).
	CellWidth  = 3
	CellHeight = 3

	DefaultMinW = 2
	DefaultMinH = 2

	// Mobile breakpoints stack single-column with a pinned size.
	MobileW = 2
	MobileH = 2
)

// Mobile reports whether a breakpoint stacks widgets single-column with a
// pinned size instead of packing them into rows.
func Mobile(breakpoint string) bool {
	return breakpoint == "xs" || breakpoint == "xxs"
}
