package layout

// Column is a downward-only vertical cursor. Y is the baseline of the next
// line to emit.
type Column struct {
	Y          int
	LineHeight int
	Gap        int
}

// Block reserves n lines of one section and returns their baselines. The
// cursor ends Gap below the last line; an empty block leaves it untouched.
func (c *Column) Block(n int) []int {
	if n <= 0 {
		return nil
	}
	ys := make([]int, n)
	for i := range ys {
		ys[i] = c.Y + i*c.LineHeight
	}
	c.Y = ys[n-1] + max(c.Gap, 0)
	return ys
}

// Line reserves a single line and advances by LineHeight only.
func (c *Column) Line() int {
	y := c.Y
	c.Skip(c.LineHeight)
	return y
}

// End closes a section whose last line sat at baseline last, leaving the
// cursor at last+Gap the same way Block does.
func (c *Column) End(last int) {
	c.Y = last + max(c.Gap, 0)
}

// Skip moves the cursor down by dy; negative values are ignored.
func (c *Column) Skip(dy int) {
	if dy > 0 {
		c.Y += dy
	}
}
