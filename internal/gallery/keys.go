package gallery

import "sort"

// Command is what a key press asks an overlay to do.
type Command int

const (
	CmdNone Command = iota
	CmdClose
	CmdNext
	CmdPrev
	CmdZoom
	CmdFullscreen
)

func (c Command) String() string {
	switch c {
	case CmdClose:
		return "close"
	case CmdNext:
		return "next"
	case CmdPrev:
		return "prev"
	case CmdZoom:
		return "zoom"
	case CmdFullscreen:
		return "fullscreen"
	}
	return "none"
}

// KeyMap binds normalized key names to commands.
type KeyMap map[string]Command

// LightboxKeys is the key layer of an open lightbox.
var LightboxKeys = KeyMap{
	"Escape":     CmdClose,
	"ArrowRight": CmdNext,
	"ArrowLeft":  CmdPrev,
	"z":          CmdZoom,
	"Z":          CmdZoom,
}

// PopupKeys is the key layer of an open popup whose lightbox is closed.
// Escape leaves fullscreen before it closes the popup.
var PopupKeys = KeyMap{
	"Escape": CmdClose,
	"f":      CmdFullscreen,
	"F":      CmdFullscreen,
}

// terminal and DOM hosts name the same keys differently
var keyAliases = map[string]string{
	"esc":   "Escape",
	"right": "ArrowRight",
	"left":  "ArrowLeft",
	"Right": "ArrowRight",
	"Left":  "ArrowLeft",
	"Esc":   "Escape",
}

// NormalizeKey maps host key names onto DOM KeyboardEvent.key names.
func NormalizeKey(key string) string {
	if k, ok := keyAliases[key]; ok {
		return k
	}
	return key
}

// Lookup returns the command bound to key, or CmdNone.
func (m KeyMap) Lookup(key string) Command {
	return m[NormalizeKey(key)]
}

// Controller is the surface a KeyAdapter drives.
type Controller interface {
	IsOpen() bool
	Close()
	Next()
	Prev()
	ToggleZoom()
}

// EventSource delivers key presses to subscribers until they unsubscribe.
type EventSource interface {
	Subscribe(fn func(key string)) (unsubscribe func())
}

// KeyAdapter turns key presses into Controller calls while the overlay is
// open. It holds at most one subscription on its EventSource.
type KeyAdapter struct {
	keys   KeyMap
	target Controller
	source EventSource
	cancel func()
}

// NewKeyAdapter returns an unbound adapter. source may be nil for hosts that
// deliver keys by calling Handle directly.
func NewKeyAdapter(keys KeyMap, target Controller, source EventSource) *KeyAdapter {
	return &KeyAdapter{keys: keys, target: target, source: source}
}

// Bind subscribes to the event source. Binding twice is a no-op.
func (a *KeyAdapter) Bind() {
	if a.cancel != nil || a.source == nil {
		return
	}
	a.cancel = a.source.Subscribe(func(key string) { a.Handle(key) })
}

// Unbind drops the subscription if there is one.
func (a *KeyAdapter) Unbind() {
	if a.cancel == nil {
		return
	}
	cancel := a.cancel
	a.cancel = nil
	cancel()
}

// Bound reports whether the adapter currently listens.
func (a *KeyAdapter) Bound() bool { return a.cancel != nil }

// Handle applies key and returns the command it ran. Keys arriving while
// the overlay is closed are dropped.
func (a *KeyAdapter) Handle(key string) Command {
	if !a.target.IsOpen() {
		return CmdNone
	}
	cmd := a.keys.Lookup(key)
	switch cmd {
	case CmdClose:
		a.target.Close()
	case CmdNext:
		a.target.Next()
	case CmdPrev:
		a.target.Prev()
	case CmdZoom:
		a.target.ToggleZoom()
	default:
		return CmdNone
	}
	return cmd
}

// Listeners is an EventSource fanning each key out to every subscriber.
// Subscribers may unsubscribe from inside their callback.
type Listeners struct {
	next int
	fns  map[int]func(string)
}

func (l *Listeners) Subscribe(fn func(key string)) func() {
	if l.fns == nil {
		l.fns = make(map[int]func(string))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

// Dispatch delivers key to the subscribers present when it was called,
// in subscription order.
func (l *Listeners) Dispatch(key string) {
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			fn(key)
		}
	}
}

// Len returns the number of live subscriptions.
func (l *Listeners) Len() int { return len(l.fns) }
