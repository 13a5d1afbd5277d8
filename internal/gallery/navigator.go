// Package gallery holds the image lightbox state shared by every host view:
// the inline grid, the fullscreen lightbox and the thumbnail strip.
package gallery

// State is the read-only projection a host view renders from.
type State struct {
	Images []string `json:"images"`
	Index  int      `json:"index"`
	Open   bool     `json:"open"`
	Zoomed bool     `json:"zoomed"`
}

// Current returns the image reference being displayed, or "" for an empty gallery.
func (s State) Current() string {
	if s.Index < 0 || s.Index >= len(s.Images) {
		return ""
	}
	return s.Images[s.Index]
}

// Position is the 1-based position shown in "2 / 5" counters.
func (s State) Position() int {
	if len(s.Images) == 0 {
		return 0
	}
	return s.Index + 1
}

// Navigator walks a fixed list of images with wrap-around navigation.
// Every operation is total: out-of-range input and empty lists are no-ops.
type Navigator struct {
	images []string
	index  int
	open   bool
	zoomed bool
}

// NewNavigator copies images so later changes by the caller can't move the
// index out of range.
func NewNavigator(images []string) *Navigator {
	cp := make([]string, len(images))
	copy(cp, images)
	return &Navigator{images: cp}
}

// Len returns the number of images.
func (n *Navigator) Len() int { return len(n.images) }

// State returns a snapshot of the navigator.
func (n *Navigator) State() State {
	imgs := make([]string, len(n.images))
	copy(imgs, n.images)
	return State{Images: imgs, Index: n.index, Open: n.open, Zoomed: n.zoomed}
}

// Open shows the overlay at the given index. An index outside the list
// clamps to 0.
func (n *Navigator) Open(at int) {
	if !n.valid(at) {
		at = 0
	}
	n.index = at
	n.open = true
	n.zoomed = false
}

// Close hides the overlay and drops zoom.
func (n *Navigator) Close() {
	n.open = false
	n.zoomed = false
}

// Next moves forward, wrapping from the last image to the first.
func (n *Navigator) Next() {
	if len(n.images) == 0 {
		return
	}
	n.move((n.index + 1) % len(n.images))
}

// Prev moves backward, wrapping from the first image to the last.
func (n *Navigator) Prev() {
	if len(n.images) == 0 {
		return
	}
	n.move((n.index - 1 + len(n.images)) % len(n.images))
}

// GoTo jumps to index. Stale indexes from a thumbnail strip are ignored.
func (n *Navigator) GoTo(index int) {
	if !n.valid(index) {
		return
	}
	n.move(index)
}

// ToggleZoom flips zoom on the current image. Zoom only exists while open.
func (n *Navigator) ToggleZoom() {
	if !n.open {
		return
	}
	n.zoomed = !n.zoomed
}

// zoom is per image view, so it resets only when the displayed image changes.
func (n *Navigator) move(to int) {
	if to != n.index {
		n.zoomed = false
	}
	n.index = to
}

func (n *Navigator) valid(i int) bool {
	return i >= 0 && i < len(n.images)
}

// restore rebuilds a navigator from a snapshot, repairing an index that no
// longer fits the image list.
func restore(s State) *Navigator {
	n := NewNavigator(s.Images)
	if n.valid(s.Index) {
		n.index = s.Index
	}
	n.open = s.Open
	n.zoomed = s.Open && s.Zoomed
	return n
}
