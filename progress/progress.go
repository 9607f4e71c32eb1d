package progress

import (
	"context"
	"sync"
	"time"
)

// Delta is an incremental counter change. Fields are signed.
type Delta struct {
	Total     int
	Converted int
	Failed    int
	Running   int
	Cells     int
}

// Progress keeps aggregated conversion counters. It is safe for concurrent use.
type Progress struct {
	Batch     string
	StartedAt time.Time

	Total     int
	Converted int
	Failed    int
	Running   int
	Cells     int

	sync.Mutex
	onChange func(Progress)
}

// Done reports whether every notebook has either converted or failed.
func (p *Progress) Done() bool {
	return p.Converted+p.Failed >= p.Total
}

// Update applies d. The onChange callback, if any, receives a copy taken
// under the lock and runs after it is released.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.Total += d.Total
	p.Converted += d.Converted
	p.Failed += d.Failed
	p.Running += d.Running
	p.Cells += d.Cells
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		Batch:     p.Batch,
		StartedAt: p.StartedAt,
		Total:     p.Total,
		Converted: p.Converted,
		Failed:    p.Failed,
		Running:   p.Running,
		Cells:     p.Cells,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, batch string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Batch:     batch,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
