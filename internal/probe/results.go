package probe

import "strings"

type State int

const (
	NotTested State = iota
	Online
	Offline
)

func (s State) String() string {
	switch s {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "not_tested"
	}
}

// Results maps address to reachability. An address with no entry was never
// probed.
type Results map[string]bool

func (r Results) State(address string) State {
	a := strings.TrimSpace(address)
	if a == "" {
		return NotTested
	}
	ok, probed := r[a]
	switch {
	case !probed:
		return NotTested
	case ok:
		return Online
	default:
		return Offline
	}
}

// Count returns how many probed addresses were reachable and unreachable.
func (r Results) Count() (online, offline int) {
	for _, ok := range r {
		if ok {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}
