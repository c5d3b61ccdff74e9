package scheduler

import "sort"

// FrameHandle identifies a pending frame request. The zero handle is never
// issued.
type FrameHandle uint64

// Host delivers frame signals. RequestFrame arranges for fn to run once on
// the host's next frame; CancelFrame withdraws a request that has not run.
// Both are called from the goroutine that runs the callbacks.
type Host interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// Callbacks is a set of pending frame requests. Hosts embed it and call Run
// once per frame.
type Callbacks struct {
	next    FrameHandle
	pending map[FrameHandle]func()
}

// RequestFrame queues fn for the next Run.
func (c *Callbacks) RequestFrame(fn func()) FrameHandle {
	if c.pending == nil {
		c.pending = make(map[FrameHandle]func())
	}
	c.next++
	c.pending[c.next] = fn
	return c.next
}

// CancelFrame drops a queued request.
func (c *Callbacks) CancelFrame(h FrameHandle) {
	delete(c.pending, h)
}

// Pending returns the number of queued requests.
func (c *Callbacks) Pending() int {
	return len(c.pending)
}

// Run invokes the requests queued before the call, in request order.
// Requests made by the callbacks wait for the next Run. It returns the
// number of callbacks invoked.
func (c *Callbacks) Run() int {
	if len(c.pending) == 0 {
		return 0
	}
	handles := make([]FrameHandle, 0, len(c.pending))
	for h := range c.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	batch := make([]func(), 0, len(handles))
	for _, h := range handles {
		batch = append(batch, c.pending[h])
		delete(c.pending, h)
	}
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// ManualHost is a Host whose frames are produced by calling Pump. The
// headless driver and tests use it.
type ManualHost struct {
	Callbacks
	frames int
}

// NewManualHost creates an idle host.
func NewManualHost() *ManualHost {
	return &ManualHost{}
}

// Pump delivers one frame signal and returns the callbacks it ran.
func (h *ManualHost) Pump() int {
	h.frames++
	return h.Run()
}

// Frames returns how many frames have been pumped.
func (h *ManualHost) Frames() int {
	return h.frames
}
