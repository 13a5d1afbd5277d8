package gallery

// PopupSnapshot is the serialized form of a Popup and its lightbox, kept
// between requests by hosts that can't hold a Popup in memory.
type PopupSnapshot struct {
	Slug       string `json:"slug"`
	Open       bool   `json:"open"`
	Fullscreen bool   `json:"fullscreen"`
	Lightbox   State  `json:"lightbox"`
}

// Popup is the detail overlay for one experience or question. It holds the
// page scroll lock while open and hosts a Lightbox over the item's images.
type Popup struct {
	slug       string
	open       bool
	fullscreen bool
	lock       ScrollLock
	source     EventSource
	lightbox   *Lightbox
}

// NewPopup returns a closed popup sharing lock with its lightbox.
func NewPopup(lock ScrollLock, source EventSource) *Popup {
	if lock == nil {
		lock = NewPageLock(nil)
	}
	p := &Popup{lock: lock, source: source}
	p.lightbox = p.newLightbox(nil)
	return p
}

// RestorePopup rebuilds a popup from snap, re-acquiring the scroll lock
// when it was open.
func RestorePopup(snap PopupSnapshot, lock ScrollLock, source EventSource) *Popup {
	p := NewPopup(lock, source)
	if !snap.Open {
		return p
	}
	p.slug = snap.Slug
	p.open = true
	p.fullscreen = snap.Fullscreen
	p.lightbox = RestoreLightbox(snap.Lightbox, p.lock, source)
	p.lightbox.OnClose(p.relock)
	p.lock.Acquire()
	return p
}

func (p *Popup) newLightbox(images []string) *Lightbox {
	lb := NewLightbox(images, p.lock, p.source)
	lb.OnClose(p.relock)
	return lb
}

// the lightbox released the shared lock; the popup behind it still needs it
func (p *Popup) relock() {
	if p.open {
		p.lock.Acquire()
	}
}

// Show opens the popup for slug. Showing a different item replaces the
// previous one and starts its gallery from the first image.
func (p *Popup) Show(slug string, images []string) {
	if p.open && p.slug == slug {
		return
	}
	p.lightbox.Unmount()
	p.slug = slug
	p.open = true
	p.fullscreen = false
	p.lightbox = p.newLightbox(images)
	p.lock.Acquire()
}

// Hide closes the popup and everything inside it.
func (p *Popup) Hide() {
	p.lightbox.Unmount()
	p.lightbox = p.newLightbox(nil)
	p.slug = ""
	p.open = false
	p.fullscreen = false
	p.lock.Release()
}

// ToggleFullscreen flips the split fullscreen layout. The lightbox owns the
// screen while it is open, so the toggle waits until it closes.
func (p *Popup) ToggleFullscreen() {
	if !p.open || p.lightbox.IsOpen() {
		return
	}
	p.fullscreen = !p.fullscreen
}

// HandleKey routes a key to the lightbox when it is open, else to the
// popup layer. Escape leaves fullscreen before it closes the popup.
func (p *Popup) HandleKey(key string) Command {
	if !p.open {
		return CmdNone
	}
	if p.lightbox.IsOpen() {
		return p.lightbox.HandleKey(key)
	}
	switch PopupKeys.Lookup(key) {
	case CmdClose:
		if p.fullscreen {
			p.fullscreen = false
			return CmdFullscreen
		}
		p.Hide()
		return CmdClose
	case CmdFullscreen:
		p.ToggleFullscreen()
		return CmdFullscreen
	}
	return CmdNone
}

func (p *Popup) Slug() string        { return p.slug }
func (p *Popup) IsOpen() bool        { return p.open }
func (p *Popup) Fullscreen() bool    { return p.fullscreen }
func (p *Popup) Lightbox() *Lightbox { return p.lightbox }
func (p *Popup) Locked() bool        { return p.lock.Held() }

func (p *Popup) Snapshot() PopupSnapshot {
	if !p.open {
		return PopupSnapshot{}
	}
	return PopupSnapshot{
		Slug:       p.slug,
		Open:       true,
		Fullscreen: p.fullscreen,
		Lightbox:   p.lightbox.State(),
	}
}
