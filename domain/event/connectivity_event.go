package event

import "time"

type BecameReachable struct {
	At time.Time
}

func (e BecameReachable) Name() string          { return "BecameReachable" }
func (e BecameReachable) OccurredAt() time.Time { return e.At }

type BecameUnreachable struct {
	At time.Time
}

func (e BecameUnreachable) Name() string          { return "BecameUnreachable" }
func (e BecameUnreachable) OccurredAt() time.Time { return e.At }

// BannerChanged carries the banner mode as a string to keep this package free of
// presentation types.
type BannerChanged struct {
	Mode      string
	Reachable bool
	At        time.Time
}

func (e BannerChanged) Name() string          { return "BannerChanged" }
func (e BannerChanged) OccurredAt() time.Time { return e.At }
