// Package nav is the list/detail navigation state machine. It only tracks
// which entry of the current page is open; side effects such as marking a
// message read belong to the caller.
package nav

// Mode is the navigator's top-level state.
type Mode int

const (
	Listing Mode = iota
	Viewing
)

func (m Mode) String() string {
	if m == Viewing {
		return "viewing"
	}
	return "listing"
}

// Navigator is either Listing or Viewing an index into a list of length n.
// The zero value is Listing over an empty list.
type Navigator struct {
	mode  Mode
	index int
	n     int
}

// New returns a listing navigator over n entries.
func New(n int) Navigator {
	return Navigator{n: max(n, 0)}
}

func (v Navigator) Mode() Mode { return v.mode }

// Index returns the open entry, or -1 while listing.
func (v Navigator) Index() int {
	if v.mode != Viewing {
		return -1
	}
	return v.index
}

// Len returns the length of the list being navigated.
func (v Navigator) Len() int { return v.n }

// Viewing reports whether an entry is open.
func (v Navigator) Viewing() bool { return v.mode == Viewing }

// Select opens entry i. Out of range indexes leave the state unchanged and
// report false.
func (v *Navigator) Select(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	v.mode = Viewing
	v.index = i
	return true
}

// Close returns to the list.
func (v *Navigator) Close() {
	v.mode = Listing
	v.index = 0
}

// HasNext reports whether Next would move.
func (v Navigator) HasNext() bool {
	return v.mode == Viewing && v.index < v.n-1
}

// HasPrev reports whether Prev would move.
func (v Navigator) HasPrev() bool {
	return v.mode == Viewing && v.index > 0
}

// Next opens the following entry. At the end of the list it is a no-op.
func (v *Navigator) Next() bool {
	if !v.HasNext() {
		return false
	}
	v.index++
	return true
}

// Prev opens the preceding entry. At the start of the list it is a no-op.
func (v *Navigator) Prev() bool {
	if !v.HasPrev() {
		return false
	}
	v.index--
	return true
}

// Reset returns to Listing over a freshly loaded list of n entries.
func (v *Navigator) Reset(n int) {
	*v = New(n)
}

// Reconcile adapts to a refetched list of n entries without leaving the
// open view: the index is clamped to the new last entry, and an empty list
// closes the view.
func (v *Navigator) Reconcile(n int) {
	v.n = max(n, 0)
	if v.mode != Viewing {
		return
	}
	if v.n == 0 {
		v.Close()
		return
	}
	if v.index >= v.n {
		v.index = v.n - 1
	}
}
