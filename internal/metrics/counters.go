package metrics

const inchesPerMile = 63360.0

// Add returns c incremented by d. Negative components of d are ignored.
func (c Counters) Add(d Delta) Counters {
	c.Keypresses += nonNegative(d.Keypresses)
	c.MouseClicks += nonNegative(d.MouseClicks)
	c.ScrollSteps += nonNegative(d.ScrollSteps)
	if d.DistanceIn > 0 {
		c.MouseDistanceIn += d.DistanceIn
		c.MouseDistanceMi += d.DistanceIn / inchesPerMile
	}
	return c
}

// Sub returns c minus persisted, clamped at zero per field.
func (c Counters) Sub(persisted Counters) Counters {
	c.Keypresses = nonNegative(c.Keypresses - persisted.Keypresses)
	c.MouseClicks = nonNegative(c.MouseClicks - persisted.MouseClicks)
	c.ScrollSteps = nonNegative(c.ScrollSteps - persisted.ScrollSteps)
	c.MouseDistanceIn = max(c.MouseDistanceIn-persisted.MouseDistanceIn, 0)
	c.MouseDistanceMi = max(c.MouseDistanceMi-persisted.MouseDistanceMi, 0)
	return c
}

// Plus returns the field-wise sum of c and o.
func (c Counters) Plus(o Counters) Counters {
	c.Keypresses += o.Keypresses
	c.MouseClicks += o.MouseClicks
	c.MouseDistanceIn += o.MouseDistanceIn
	c.MouseDistanceMi += o.MouseDistanceMi
	c.ScrollSteps += o.ScrollSteps
	return c
}

// IsZero reports whether nothing has been counted.
func (c Counters) IsZero() bool {
	return c == Counters{}
}

// IsZero reports whether the delta carries no activity.
func (d Delta) IsZero() bool {
	return d.Keypresses <= 0 && d.MouseClicks <= 0 && d.ScrollSteps <= 0 && !(d.DistanceIn > 0)
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
