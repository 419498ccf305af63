package h2

import "time"

// StreamState is one of the seven states of the RFC 7540 §5.1 stream
// lifecycle.
type StreamState int8

const (
	StreamStateIdle StreamState = iota
	StreamStateReservedLocal
	StreamStateReservedRemote
	StreamStateOpen
	StreamStateHalfClosedLocal
	StreamStateHalfClosedRemote
	StreamStateClosed
)

func (ss StreamState) String() string {
	switch ss {
	case StreamStateIdle:
		return "Idle"
	case StreamStateReservedLocal:
		return "ReservedLocal"
	case StreamStateReservedRemote:
		return "ReservedRemote"
	case StreamStateOpen:
		return "Open"
	case StreamStateHalfClosedLocal:
		return "HalfClosedLocal"
	case StreamStateHalfClosedRemote:
		return "HalfClosedRemote"
	case StreamStateClosed:
		return "Closed"
	}

	return "Unknown"
}

// Stream tracks per-stream state: flow control window, lifecycle state,
// priority metadata, creation/closure timestamps and a completion
// signal (Done/Err). Engine.Await does not use that signal; it waits on
// the request's Ctx.
type Stream struct {
	id     uint32
	window int32
	state  StreamState
	data   interface{}

	// priority, RFC 7540 §5.3. parent 0 means the root.
	weight uint8
	parent uint32
	excl   bool

	createdAt time.Time
	closedAt  time.Time

	done chan struct{}
	err  error
}

// NewStream returns an idle Stream with the given id and initial
// window, ready to be inserted into a Streams set.
func NewStream(id uint32, win int, data interface{}) *Stream {
	return &Stream{
		id:        id,
		window:    int32(win),
		state:     StreamStateIdle,
		data:      data,
		weight:    defaultWeight,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
}

const defaultWeight = 16

func (s *Stream) ID() uint32 {
	return s.id
}

func (s *Stream) SetID(id uint32) {
	s.id = id
}

func (s *Stream) State() StreamState {
	return s.state
}

func (s *Stream) SetState(state StreamState) {
	s.state = state
	if state == StreamStateClosed {
		s.markDone(nil)
	}
}

func (s *Stream) Window() int {
	return int(s.window)
}

func (s *Stream) SetWindow(win int) {
	s.window = int32(win)
}

func (s *Stream) IncrWindow(win int) {
	s.window += int32(win)
}

func (s *Stream) Data() interface{} {
	return s.data
}

// Priority returns the stream's dependency parent, weight (1-256) and
// whether the dependency is exclusive.
func (s *Stream) Priority() (parent uint32, weight uint8, exclusive bool) {
	return s.parent, s.weight + 1, s.excl
}

// SetPriority stores priority metadata carried by a PRIORITY frame or
// the priority fields of a HEADERS frame.
func (s *Stream) SetPriority(parent uint32, weight uint8, exclusive bool) {
	s.parent = parent
	s.weight = weight
	s.excl = exclusive
}

// IsClientInitiated reports whether the stream id is odd, i.e. opened
// by a client (RFC 7540 §5.1.1: clients use odd ids, servers even ids).
func (s *Stream) IsClientInitiated() bool {
	return s.id%2 == 1
}

// EndLocal transitions a stream after the local endpoint sends
// END_STREAM, applying the half-close rules of RFC 7540 §5.1.
func (s *Stream) EndLocal() {
	switch s.state {
	case StreamStateOpen:
		s.SetState(StreamStateHalfClosedLocal)
	case StreamStateHalfClosedRemote:
		s.SetState(StreamStateClosed)
	}
}

// EndRemote transitions a stream after the remote endpoint sends
// END_STREAM.
func (s *Stream) EndRemote() {
	switch s.state {
	case StreamStateOpen:
		s.SetState(StreamStateHalfClosedRemote)
	case StreamStateHalfClosedLocal:
		s.SetState(StreamStateClosed)
	}
}

// Done returns a channel closed once the stream reaches
// StreamStateClosed, for use by Await-style callers.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error the stream was closed with, if any (e.g. from
// an RST_STREAM).
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) markDone(err error) {
	s.err = err
	s.closedAt = time.Now()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Reset marks the stream closed with err, as if an RST_STREAM had been
// received or sent for it.
func (s *Stream) Reset(err error) {
	s.state = StreamStateClosed
	s.markDone(err)
}
