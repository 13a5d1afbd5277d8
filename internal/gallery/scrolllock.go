package gallery

// ScrollLock suppresses background scrolling while an overlay is visible.
type ScrollLock interface {
	Acquire()
	Release()
	Held() bool
}

// Surface is whatever scrolls behind the overlay: a page body, a terminal
// list viewport.
type Surface interface {
	Overflow() string
	SetOverflow(v string)
}

// OverflowHidden is the value a locked surface carries.
const OverflowHidden = "hidden"

// PageLock is the single scroll lock of a page. Acquire while held and
// Release while free are no-ops, so the lock never stacks.
type PageLock struct {
	surface Surface
	held    bool
	prior   string
}

// NewPageLock returns a free lock over surface. A nil surface only tracks
// the held flag; the HTTP host renders that flag itself.
func NewPageLock(surface Surface) *PageLock {
	return &PageLock{surface: surface}
}

func (l *PageLock) Acquire() {
	if l.held {
		return
	}
	l.held = true
	if l.surface != nil {
		l.prior = l.surface.Overflow()
		l.surface.SetOverflow(OverflowHidden)
	}
}

// Release restores whatever overflow the surface had before Acquire.
func (l *PageLock) Release() {
	if !l.held {
		return
	}
	l.held = false
	if l.surface != nil {
		l.surface.SetOverflow(l.prior)
		l.prior = ""
	}
}

func (l *PageLock) Held() bool { return l.held }

// Body is an in-memory Surface standing in for a document body.
type Body struct {
	overflow string
}

func (b *Body) Overflow() string     { return b.overflow }
func (b *Body) SetOverflow(v string) { b.overflow = v }
