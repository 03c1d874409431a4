package logic

// Viewport keeps the cursor row inside the window of rows that fit on screen
type Viewport struct {
	offset int
	height int
}

// NewViewport creates a viewport showing height rows
func NewViewport(height int) *Viewport {
	v := &Viewport{}
	v.SetHeight(height)
	return v
}

// SetHeight changes how many rows fit
func (v *Viewport) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	v.height = height
}

func (v *Viewport) Height() int { return v.height }
func (v *Viewport) Offset() int { return v.offset }

// Reset scrolls back to the first row
func (v *Viewport) Reset() {
	v.offset = 0
}

// Follow scrolls so the cursor is visible and returns the new offset
func (v *Viewport) Follow(cursor, total int) int {
	// If selected item is above viewport, scroll up
	if cursor < v.offset {
		v.offset = cursor
	}
	// If selected item is below viewport, scroll down
	if cursor >= v.offset+v.height {
		v.offset = cursor - v.height + 1
	}
	// Never leave empty rows at the bottom when the list shrinks
	if last := total - v.height; v.offset > last {
		v.offset = last
	}
	if v.offset < 0 {
		v.offset = 0
	}
	return v.offset
}
