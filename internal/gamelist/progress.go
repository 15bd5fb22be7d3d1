package gamelist

import "gamelist/internal/blob"

// NewProgressRelay adapts a progress indicator to the codec's callback. The
// fraction is shown as a percentage in 0..100 and the codec is told to stop
// once the user has cancelled.
func NewProgressRelay(p Progress) blob.ProgressFunc {
	return func(_ string, fraction float64) bool {
		p.SetValue(max(0, min(100, int(fraction*100))))
		return !p.Cancelled()
	}
}
