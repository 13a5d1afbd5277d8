package gallery

// Lightbox is a Navigator with its side effects attached: opening it takes
// the page scroll lock and starts listening for keys, and every exit path
// (Close, Escape, Unmount) gives both back.
type Lightbox struct {
	nav     *Navigator
	lock    ScrollLock
	keys    *KeyAdapter
	onClose func()
}

// NewLightbox returns a closed lightbox over images. source may be nil.
func NewLightbox(images []string, lock ScrollLock, source EventSource) *Lightbox {
	if lock == nil {
		lock = NewPageLock(nil)
	}
	lb := &Lightbox{nav: NewNavigator(images), lock: lock}
	lb.keys = NewKeyAdapter(LightboxKeys, lb, source)
	return lb
}

// RestoreLightbox rebuilds a lightbox from a snapshot and re-acquires its
// side effects when the snapshot was open.
func RestoreLightbox(s State, lock ScrollLock, source EventSource) *Lightbox {
	lb := NewLightbox(nil, lock, source)
	lb.nav = restore(s)
	if lb.nav.open {
		lb.lock.Acquire()
		lb.keys.Bind()
	}
	return lb
}

// OnClose registers fn to run after an explicit close. Unmount skips it.
func (lb *Lightbox) OnClose(fn func()) { lb.onClose = fn }

func (lb *Lightbox) State() State     { return lb.nav.State() }
func (lb *Lightbox) IsOpen() bool     { return lb.nav.open }
func (lb *Lightbox) Len() int         { return lb.nav.Len() }
func (lb *Lightbox) Lock() ScrollLock { return lb.lock }

// Listening reports whether the key adapter is subscribed.
func (lb *Lightbox) Listening() bool { return lb.keys.Bound() }

func (lb *Lightbox) Open(at int) {
	lb.nav.Open(at)
	lb.lock.Acquire()
	lb.keys.Bind()
}

func (lb *Lightbox) Close() {
	wasOpen := lb.nav.open
	lb.nav.Close()
	lb.keys.Unbind()
	lb.lock.Release()
	if wasOpen && lb.onClose != nil {
		lb.onClose()
	}
}

// Unmount tears the lightbox down with its host view.
func (lb *Lightbox) Unmount() {
	lb.nav.Close()
	lb.keys.Unbind()
	lb.lock.Release()
}

func (lb *Lightbox) Next()          { lb.nav.Next() }
func (lb *Lightbox) Prev()          { lb.nav.Prev() }
func (lb *Lightbox) GoTo(index int) { lb.nav.GoTo(index) }
func (lb *Lightbox) ToggleZoom()    { lb.nav.ToggleZoom() }

// HandleKey feeds a key from hosts that have no EventSource, such as an
// HTTP request carrying the pressed key.
func (lb *Lightbox) HandleKey(key string) Command {
	return lb.keys.Handle(key)
}
