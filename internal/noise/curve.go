package noise

import "github.com/Faultbox/terrastream/internal/config"

// Curve is a piecewise-linear response curve over [0, 1]. A nil Curve is the
// identity.
type Curve struct {
	points []config.CurvePoint
}

// NewCurve returns a curve through points, or nil when points is empty.
// Points must be sorted by X; config validation enforces this.
func NewCurve(points []config.CurvePoint) *Curve {
	if len(points) == 0 {
		return nil
	}
	return &Curve{points: append([]config.CurvePoint(nil), points...)}
}

// Sample evaluates the curve at t, clamping t into [0, 1]. Inputs outside
// the control points take the nearest endpoint value.
func (c *Curve) Sample(t float32) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if c == nil {
		return t
	}

	pts := c.points
	if t <= pts[0].X {
		return pts[0].Y
	}
	for i := 1; i < len(pts); i++ {
		if t <= pts[i].X {
			a, b := pts[i-1], pts[i]
			f := (t - a.X) / (b.X - a.X)
			return a.Y + (b.Y-a.Y)*f
		}
	}
	return pts[len(pts)-1].Y
}

// Channel is one height channel: a noise source remapped to [0, 1] and
// reshaped by an optional curve.
type Channel struct {
	Source Source
	Curve  *Curve
}

// NewChannel builds a channel from config. Source is nil when unset.
func NewChannel(cfg config.ChannelConfig) (Channel, error) {
	src, err := New(cfg.Noise)
	if err != nil {
		return Channel{}, err
	}
	return Channel{Source: src, Curve: NewCurve(cfg.Curve)}, nil
}

// Ready reports whether the channel has a noise source.
func (c Channel) Ready() bool {
	return c.Source != nil
}

// Value samples the channel at a world position.
func (c Channel) Value(x, z float32) float32 {
	n := (c.Source.Sample(x, z) + 1) * 0.5
	return c.Curve.Sample(n)
}
