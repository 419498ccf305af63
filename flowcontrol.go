package h2

import (
	"context"
	"sync"
)

// defaultConnWindow is the window this implementation advertises for
// the connection as a whole, matching the teacher's fixed 1MiB ceiling
// rather than the RFC 7540 §6.9.2 default of 65535 used for streams.
const defaultConnWindow = 1 << 20

// FlowControl tracks one side of one flow-controlled entity (a
// connection, or a single stream) per RFC 7540 §6.9: how much more data
// the peer is allowed to send us (recv), and how much more we are
// allowed to send the peer (send).
//
// The receive side uses a halve-then-refill policy: once the window we
// have left drops below half of what we advertise, OnDataReceived
// reports a WINDOW_UPDATE to send that tops it back up, instead of
// dribbling out an update for every frame.
type FlowControl struct {
	mu   sync.Mutex
	cond *sync.Cond

	maxRecv int32
	recv    int32
	send    int32
	closed  bool
}

// NewFlowControl returns a FlowControl that advertises maxRecv bytes of
// receive window and starts with sendWindow bytes of send window (the
// peer's initial window, typically SETTINGS_INITIAL_WINDOW_SIZE).
func NewFlowControl(maxRecv, sendWindow int32) *FlowControl {
	fc := &FlowControl{
		maxRecv: maxRecv,
		recv:    maxRecv,
		send:    sendWindow,
	}
	fc.cond = sync.NewCond(&fc.mu)
	return fc
}

// OnDataSent accounts for n bytes of DATA payload we just sent. It
// refuses (FlowControlError) rather than letting the window go
// negative — callers must size n from WaitSendable first; this is the
// defensive backstop, not the gating mechanism itself.
func (fc *FlowControl) OnDataSent(n int32) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if n > fc.send {
		return NewError(FlowControlError, ScopeStream, "sent more than the available send window")
	}
	fc.send -= n
	return nil
}

// WaitSendable blocks until the send window rises above zero, ctx is
// cancelled, or Close is called, then returns the window currently
// available to send into (without reserving it — the caller still owes
// a matching OnDataSent once it decides how much of that window it
// actually used). This is what lets writeData pause when a peer's
// window is exhausted and resume as soon as a WINDOW_UPDATE arrives.
func (fc *FlowControl) WaitSendable(ctx context.Context) (int32, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				fc.cond.Broadcast()
			case <-stop:
			}
		}()
	}

	for fc.send <= 0 && !fc.closed {
		if ctx != nil && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		fc.cond.Wait()
	}

	if fc.closed {
		return 0, ErrEngineClosed
	}
	return fc.send, nil
}

// Close unblocks every goroutine parked in WaitSendable, used when the
// engine is tearing down so a stalled write doesn't hang forever.
func (fc *FlowControl) Close() {
	fc.mu.Lock()
	fc.closed = true
	fc.mu.Unlock()
	fc.cond.Broadcast()
}

// OnDataReceived accounts for n bytes of DATA payload we just received.
// If the remaining receive window has dropped past the halfway mark, it
// returns the increment to send back via WINDOW_UPDATE and resets the
// window, so the caller only needs to check `send`.
func (fc *FlowControl) OnDataReceived(n int32) (increment int32, send bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.recv -= n
	if fc.recv < fc.maxRecv/2 {
		increment = fc.maxRecv - fc.recv
		fc.recv = fc.maxRecv
		send = true
	}
	return increment, send
}

// OnWindowUpdate applies a WINDOW_UPDATE increment to the send window,
// reporting FlowControlError if it would overflow the 31-bit window
// size RFC 7540 §6.9.1 bounds it to.
func (fc *FlowControl) OnWindowUpdate(increment int32) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	next := int64(fc.send) + int64(increment)
	if next > (1<<31 - 1) {
		return NewError(FlowControlError, ScopeStream, "window update overflows maximum window size")
	}
	fc.send = int32(next)
	fc.cond.Broadcast()
	return nil
}

// OnInitialWindowSizeChange applies the delta of a changed
// SETTINGS_INITIAL_WINDOW_SIZE to every open stream's send window, per
// RFC 7540 §6.9.2. oldVal/newVal are the previous and new settings
// values; the delta is applied, not the absolute value.
func (fc *FlowControl) OnInitialWindowSizeChange(oldVal, newVal int32) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	delta := int64(newVal) - int64(oldVal)
	next := int64(fc.send) + delta
	if next > (1<<31-1) || next < -(1<<31) {
		return NewError(FlowControlError, ScopeStream, "initial window size change overflows window")
	}
	fc.send = int32(next)
	fc.cond.Broadcast()
	return nil
}

// AvailableSend returns how many bytes may still be sent without
// violating the peer's advertised window.
func (fc *FlowControl) AvailableSend() int32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.send
}

// PendingUpdate reports, without mutating state, whether the receive
// window is already due for a refill (used for an explicit flush ahead
// of GOAWAY/stream close).
func (fc *FlowControl) PendingUpdate() (increment int32, ok bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.recv < fc.maxRecv/2 {
		return fc.maxRecv - fc.recv, true
	}
	return 0, false
}

// Controller owns the connection-level FlowControl plus a per-stream
// one for every active stream, mirroring RFC 7540 §6.9.2's independent
// connection- and stream-level windows.
type Controller struct {
	mu      sync.Mutex
	conn    *FlowControl
	streams map[uint32]*FlowControl

	initialWindow int32
}

// NewController returns a Controller whose connection window receives
// up to defaultConnWindow bytes and starts with the RFC 7540 default of
// 65535 bytes to send, and the given initial per-stream window (usually
// SETTINGS_INITIAL_WINDOW_SIZE, defaulting to 65535).
func NewController(initialWindow int32) *Controller {
	return &Controller{
		conn:          NewFlowControl(defaultConnWindow, int32(defaultWindowSize)),
		streams:       make(map[uint32]*FlowControl),
		initialWindow: initialWindow,
	}
}

// Conn returns the connection-level FlowControl.
func (c *Controller) Conn() *FlowControl {
	return c.conn
}

// Stream returns the FlowControl for id, creating it with the current
// initial window if it does not exist yet.
func (c *Controller) Stream(id uint32) *FlowControl {
	c.mu.Lock()
	defer c.mu.Unlock()

	fc, ok := c.streams[id]
	if !ok {
		fc = NewFlowControl(defaultConnWindow, c.initialWindow)
		c.streams[id] = fc
	}
	return fc
}

// CloseStream drops the FlowControl tracked for id, unblocking anything
// still parked in its WaitSendable.
func (c *Controller) CloseStream(id uint32) {
	c.mu.Lock()
	fc, ok := c.streams[id]
	delete(c.streams, id)
	c.mu.Unlock()

	if ok {
		fc.Close()
	}
}

// Close unblocks every WaitSendable call on the connection window and
// on every currently tracked stream window, used when the engine shuts
// down so no writer goroutine is left parked forever.
func (c *Controller) Close() {
	c.mu.Lock()
	streams := make([]*FlowControl, 0, len(c.streams))
	for _, fc := range c.streams {
		streams = append(streams, fc)
	}
	c.mu.Unlock()

	c.conn.Close()
	for _, fc := range streams {
		fc.Close()
	}
}

// SetInitialWindowSize updates the initial window used for streams
// created from now on, and applies the delta retroactively to every
// currently tracked stream, per RFC 7540 §6.9.2.
func (c *Controller) SetInitialWindowSize(newVal int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	oldVal := c.initialWindow
	c.initialWindow = newVal

	for _, fc := range c.streams {
		if err := fc.OnInitialWindowSizeChange(oldVal, newVal); err != nil {
			return err
		}
	}
	return nil
}
