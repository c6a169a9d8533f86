package layout

// Default dimensions in user units (SVG pixels).
const (
	DefaultUnitWidth  = 120.0
	DefaultUnitHeight = 56.0
	DefaultHGap       = 32.0
	DefaultCoupleGap  = 12.0
	DefaultRowHeight  = 120.0
	DefaultMarginX    = 24.0
	DefaultMarginY    = 24.0
)

// Options configures node dimensions and spacing. The zero value gets the
// package defaults via applyDefaults, so callers can set only what they care
// about.
type Options struct {
	UnitWidth  float64 // width of one person box
	UnitHeight float64 // height of one person box
	HGap       float64 // gap between units in a row
	CoupleGap  float64 // gap between the two boxes of a couple unit
	RowHeight  float64 // vertical distance between generation rows
	MarginX    float64
	MarginY    float64
}

// DefaultOptions returns the default layout options.
func DefaultOptions() Options {
	return Options{
		UnitWidth:  DefaultUnitWidth,
		UnitHeight: DefaultUnitHeight,
		HGap:       DefaultHGap,
		CoupleGap:  DefaultCoupleGap,
		RowHeight:  DefaultRowHeight,
		MarginX:    DefaultMarginX,
		MarginY:    DefaultMarginY,
	}
}

func (o *Options) applyDefaults() {
	if o.UnitWidth <= 0 {
		o.UnitWidth = DefaultUnitWidth
	}
	if o.UnitHeight <= 0 {
		o.UnitHeight = DefaultUnitHeight
	}
	if o.HGap <= 0 {
		o.HGap = DefaultHGap
	}
	if o.CoupleGap <= 0 {
		o.CoupleGap = DefaultCoupleGap
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.MarginX <= 0 {
		o.MarginX = DefaultMarginX
	}
	if o.MarginY <= 0 {
		o.MarginY = DefaultMarginY
	}
}
