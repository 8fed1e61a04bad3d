package frame

// Clock tracks elapsed animation time.
type Clock struct {
	Elapsed float64 // Seconds since start
	Delta   float64 // Seconds in the last frame
	Frame   uint64
}

// Advance moves the clock forward by dt seconds. Negative deltas are ignored.
func (c *Clock) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.Delta = dt
	c.Elapsed += dt
	c.Frame++
}
