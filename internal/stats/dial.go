package stats

import "github.com/stillpoint/breathbox/pkg/uictl"

// sessionsDial exposes the lifetime session count as a read-only dial.
type sessionsDial struct {
	store *Store
}

func (d sessionsDial) Read() int { return d.store.Load().Sessions }

// SessionsDial returns a readout of completed sessions across all runs.
func SessionsDial(s *Store) uictl.Dial[int] {
	return sessionsDial{store: s}
}
