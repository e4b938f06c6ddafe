package ratelimit

import (
	"context"
	"sync"
)

type recorderKey struct{}

// Recorder keeps the most recent quota snapshot seen while serving one caller request.
type Recorder struct {
	mu   sync.Mutex
	last *Snapshot
}

// WithRecorder returns a context that collects snapshots from Governor.Do calls made with it.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

// Record stores snap on the recorder carried by ctx, if any. Nil snapshots are ignored.
func Record(ctx context.Context, snap *Snapshot) {
	if snap == nil {
		return
	}
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	if !ok {
		return
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.last = snap
}

func (r *Recorder) Last() *Snapshot {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
