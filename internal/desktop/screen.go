package desktop

import (
	"context"
	"fmt"

	"codeberg.org/mutker/kweeb/internal/topology"
	"github.com/kbinani/screenshot"
)

// ScreenSource lists active displays through kbinani/screenshot. Physical
// sizes are not available there, so density resolves from configured
// overrides or the default PPI.
type ScreenSource struct{}

func NewScreenSource() *ScreenSource {
	return &ScreenSource{}
}

// Displays implements topology.Source. The display whose origin is (0,0)
// is marked primary.
func (*ScreenSource) Displays(ctx context.Context) ([]topology.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := screenshot.NumActiveDisplays()
	descs := make([]topology.Descriptor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		if b.Empty() {
			continue
		}
		descs = append(descs, topology.Descriptor{
			ID:      fmt.Sprintf("display-%d", i),
			X:       b.Min.X,
			Y:       b.Min.Y,
			Width:   b.Dx(),
			Height:  b.Dy(),
			Primary: b.Min.X == 0 && b.Min.Y == 0,
		})
	}
	return descs, nil
}
