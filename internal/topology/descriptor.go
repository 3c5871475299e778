package topology

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/kweeb/internal/errors"
)

const (
	mmPerInch = 25.4

	// DefaultPPI is the nominal density of an unscaled desktop.
	DefaultPPI = 96.0
)

// Descriptor is a display as reported by the operating system, before
// density has been resolved.
type Descriptor struct {
	ID       string
	X        int
	Y        int
	Width    int
	Height   int
	WidthMM  float64
	HeightMM float64
	Scale    float64
	Rotation int
	Primary  bool
}

// DensityOptions controls how a Descriptor's PPI is resolved.
type DensityOptions struct {
	DefaultPPI float64
	Overrides  map[string]float64
}

// PPI resolves the density of d: an override keyed by monitor ID wins, then
// the reported physical width, then DefaultPPI scaled by the display's
// scale factor.
func (d Descriptor) PPI(opts DensityOptions) float64 {
	if ppi, ok := opts.override(d.ID); ok {
		return ppi
	}
	if d.WidthMM > 0 && d.Width > 0 {
		return float64(d.Width) / (d.WidthMM / mmPerInch)
	}

	base := opts.DefaultPPI
	if !(base > 0) {
		base = DefaultPPI
	}
	if d.Scale > 0 {
		return base * d.Scale
	}
	return base
}

func (o DensityOptions) override(id string) (float64, bool) {
	ppi, ok := o.Overrides[id]
	if !ok {
		ppi, ok = o.Overrides[strings.ToLower(id)]
	}
	return ppi, ok && ppi > 0
}

// Orientation derives the panel orientation from the rotation in degrees,
// falling back to the aspect ratio when no rotation is reported.
func (d Descriptor) Orientation() Orientation {
	switch ((d.Rotation % 360) + 360) % 360 {
	case 90:
		return Portrait
	case 180:
		return LandscapeFlipped
	case 270:
		return PortraitFlipped
	}
	if d.Height > d.Width {
		return Portrait
	}
	return Landscape
}

// Monitor converts d into a Monitor.
func (d Descriptor) Monitor(opts DensityOptions) Monitor {
	return Monitor{
		ID:          d.ID,
		X:           d.X,
		Y:           d.Y,
		Width:       d.Width,
		Height:      d.Height,
		PPI:         d.PPI(opts),
		Primary:     d.Primary,
		Orientation: d.Orientation(),
	}
}

// FromDescriptors builds a Topology from OS display descriptors. An empty
// list is reported as ErrNoMonitorsFound so callers keep their previous
// snapshot.
func FromDescriptors(descs []Descriptor, opts DensityOptions) (*Topology, error) {
	if len(descs) == 0 {
		return nil, errors.New().New(ErrNoMonitorsFound)
	}

	monitors := make([]Monitor, 0, len(descs))
	for i, d := range descs {
		if d.ID == "" {
			d.ID = fmt.Sprintf("display-%d", i)
		}
		monitors = append(monitors, d.Monitor(opts))
	}
	return New(monitors)
}
