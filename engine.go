package h2

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// clientPreface is the connection preface a client must send before
// the first SETTINGS frame, RFC 7540 §3.5.
const clientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// DefaultPingInterval is used when Options.PingInterval is left at its
// zero value.
const DefaultPingInterval = 10 * time.Second

var (
	// ErrNotAvailableStreams is what Await returns for a request that
	// was not sent because the peer's MAX_CONCURRENT_STREAMS was
	// already reached.
	ErrNotAvailableStreams = errors.New("h2: no stream ids available")
	// ErrGoAway is returned by Submit once a GOAWAY has been received.
	ErrGoAway = errors.New("h2: connection is going away")
	// ErrEngineClosed is returned by Submit/Await after Close.
	ErrEngineClosed = errors.New("h2: engine is closed")
	// ErrTimeout is the fatal error recorded when the peer stops
	// acknowledging PINGs.
	ErrTimeout = errors.New("h2: peer is not replying to pings")
)

// WritePreface writes the client connection preface to bw.
func WritePreface(bw *bufio.Writer) error {
	_, err := bw.WriteString(clientPreface)
	return err
}

// WriteError wraps a write-side failure, keeping errors.Is/As working
// against the underlying cause.
type WriteError struct {
	err error
}

func (we WriteError) Error() string { return fmt.Sprintf("h2: write error: %s", we.err) }
func (we WriteError) Unwrap() error { return we.err }
func (we WriteError) Is(target error) bool {
	return errors.Is(we.err, target)
}
func (we WriteError) As(target interface{}) bool {
	return errors.As(we.err, target)
}

// Options configures an Engine.
type Options struct {
	// PingInterval is how often the engine pings an idle connection.
	// Zero uses DefaultPingInterval; pings cannot be disabled entirely,
	// only their failure-driven disconnect via DisablePingChecking.
	PingInterval time.Duration
	// DisablePingChecking stops unacknowledged pings from closing the
	// connection (used in tests against a peer that never acks pings).
	DisablePingChecking bool
	// OnDisconnect fires once, when the engine's connection is closed.
	OnDisconnect func(*Engine)
	// MaxConcurrentStreams is the value advertised to the peer in
	// SETTINGS_MAX_CONCURRENT_STREAMS. The engine does not count
	// peer-opened streams against it; it only holds its own requests to
	// the peer's advertised limit. Zero uses defaultConcurrentStreams.
	MaxConcurrentStreams uint32
	// InitialWindowSize is the per-stream receive window advertised to
	// the peer. Zero uses defaultWindowSize.
	InitialWindowSize uint32
	// MaxHeaderListSize bounds the uncompressed size of any header block
	// this engine's HPACK decoder will accept (spec.md §6's HPACK bomb
	// protection) and is what this engine advertises to the peer via
	// SETTINGS_MAX_HEADER_LIST_SIZE. Zero uses defaultMaxHeaderListSize.
	MaxHeaderListSize uint32
	// Logger receives connection-lifecycle events; the one event the
	// engine logs is a received GOAWAY. Never used for per-frame tracing.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.MaxConcurrentStreams == 0 {
		o.MaxConcurrentStreams = defaultConcurrentStreams
	}
	if o.InitialWindowSize == 0 {
		o.InitialWindowSize = defaultWindowSize
	}
	if o.MaxHeaderListSize == 0 {
		o.MaxHeaderListSize = defaultMaxHeaderListSize
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Engine drives one HTTP/2 connection's protocol state machine over an
// arbitrary byte transport: preface/SETTINGS handshake, frame
// read/write loops, flow control, stream bookkeeping and GOAWAY
// handling, exposing the request lifecycle as Submit/Await/Close
// (spec.md §4.8).
//
// As in the teacher's Conn, exactly one goroutine writes each mutable
// field: writeLoop owns nextID, the HPACK encoder and everything it
// sends; readLoop owns the HPACK decoder, the Streams set's state
// transitions on the receive side, and peerSettings. The two goroutines
// only share state through the in/out channels and the pending map
// (sync.Map), so no additional locking is needed for those fields.
type Engine struct {
	conn io.ReadWriteCloser

	br *bufio.Reader
	bw *bufio.Writer

	enc *HPACK
	dec *HPACK

	flow    *Controller
	streams Streams

	nextID uint32

	local Settings
	peer  Settings

	pending sync.Map // uint32 streamID -> *Ctx

	in  chan *Ctx
	out chan *FrameHeader

	opts   Options
	unacks int

	goAwayReceived   bool
	lastPeerStreamID uint32

	// closedStreams remembers stream ids that completed cleanly (both
	// directions END_STREAM, no error) so a frame that still arrives
	// for one afterwards can be recognized as a genuine STREAM_CLOSED
	// violation (RFC 7540 §5.1) rather than silently dropped the way an
	// id closed by RST_STREAM is (peers are explicitly allowed to race
	// frames against a RST_STREAM they haven't seen yet). Only readLoop
	// writes to this map. It grows for the life of the connection;
	// acceptable for the connection lifetimes this client targets, but
	// unbounded in principle.
	closedStreams map[uint32]struct{}

	closed  uint64
	lastErr error
}

// NewEngine wraps conn (already connected, e.g. after ALPN negotiation
// picked "h2") in an Engine. Call Handshake before Submit.
func NewEngine(conn io.ReadWriteCloser, opts Options) *Engine {
	opts = opts.withDefaults()

	e := &Engine{
		conn:          conn,
		br:            bufio.NewReaderSize(conn, 4096),
		bw:            bufio.NewWriterSize(conn, int(defaultMaxFrameSize)),
		enc:           AcquireHPACK(),
		dec:           AcquireHPACK(),
		flow:          NewController(int32(opts.InitialWindowSize)),
		nextID:        1,
		in:            make(chan *Ctx, 128),
		out:           make(chan *FrameHeader, 128),
		opts:          opts,
		closedStreams: make(map[uint32]struct{}),
	}

	e.local.Reset()
	e.local.SetMaxConcurrentStreams(opts.MaxConcurrentStreams)
	e.local.SetMaxWindowSize(opts.InitialWindowSize)
	e.local.SetMaxHeaderListSize(opts.MaxHeaderListSize)
	e.peer.Reset()

	// The decoder enforces the bomb-protection limit this engine
	// actually advertises, rather than relying on HPACK.Reset's default
	// matching Options by coincidence.
	e.dec.MaxHeaderListSize = int(opts.MaxHeaderListSize)

	return e
}

// Handshake sends the client preface, initial SETTINGS and a
// connection-level WINDOW_UPDATE, then waits for the peer's first
// SETTINGS frame before starting the read/write loops.
func (e *Engine) Handshake() error {
	if err := WritePreface(e.bw); err != nil {
		_ = e.conn.Close()
		return err
	}

	fr := AcquireFrameHeader()

	st := &Settings{}
	e.local.CopyTo(st)
	fr.SetBody(st)

	if _, err := fr.WriteTo(e.bw); err != nil {
		ReleaseFrameHeader(fr)
		_ = e.conn.Close()
		return err
	}
	ReleaseFrameHeader(fr)

	fr = AcquireFrameHeader()
	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdate)
	wu.SetIncrement(defaultConnWindow - 65535)
	fr.SetBody(wu)

	if _, err := fr.WriteTo(e.bw); err != nil {
		ReleaseFrameHeader(fr)
		_ = e.conn.Close()
		return err
	}
	ReleaseFrameHeader(fr)

	if err := e.bw.Flush(); err != nil {
		_ = e.conn.Close()
		return err
	}

	fr, err := ReadFrameFrom(e.br)
	if err != nil {
		_ = e.conn.Close()
		return err
	}
	defer ReleaseFrameHeader(fr)

	if fr.Type() != FrameSettings {
		_ = e.conn.Close()
		return fmt.Errorf("h2: unexpected first frame, expected SETTINGS, got %s", fr.Type())
	}

	peerSt := fr.Body().(*Settings)
	if !peerSt.IsAck() {
		if err := e.applyPeerSettings(peerSt); err != nil {
			_ = e.conn.Close()
			return err
		}

		ack := AcquireFrameHeader()
		defer ReleaseFrameHeader(ack)

		stRes := AcquireFrame(FrameSettings).(*Settings)
		stRes.SetAck(true)
		ack.SetBody(stRes)

		if _, err := ack.WriteTo(e.bw); err != nil {
			_ = e.conn.Close()
			return err
		}
		if err := e.bw.Flush(); err != nil {
			_ = e.conn.Close()
			return err
		}
	}

	go e.writeLoop()
	go e.readLoop()

	return nil
}

func (e *Engine) applyPeerSettings(st *Settings) error {
	st.CopyTo(&e.peer)

	e.enc.SetMaxTableSize(int(st.HeaderTableSize()))

	return e.flow.SetInitialWindowSize(int32(st.MaxWindowSize()))
}

// Closed reports whether the engine's connection has been closed.
func (e *Engine) Closed() bool {
	return atomic.LoadUint64(&e.closed) == 1
}

// LastErr returns the error that caused the connection to close, if
// any.
func (e *Engine) LastErr() error {
	return e.lastErr
}

// Close closes the connection gracefully: a GOAWAY(NO_ERROR) is sent,
// then the transport is closed and every pending request is woken with
// ErrEngineClosed.
func (e *Engine) Close() error {
	if !atomic.CompareAndSwapUint64(&e.closed, 0, 1) {
		return io.EOF
	}

	close(e.in)

	fr := AcquireFrameHeader()
	ga := AcquireFrame(FrameGoAway).(*GoAway)
	ga.SetStream(0)
	ga.SetCode(NoError)
	fr.SetBody(ga)

	_, err := fr.WriteTo(e.bw)
	if err == nil {
		err = e.bw.Flush()
	}
	ReleaseFrameHeader(fr)

	_ = e.conn.Close()
	e.flow.Close()

	e.pending.Range(func(_, v interface{}) bool {
		v.(*Ctx).finish(ErrEngineClosed)
		return true
	})

	if e.opts.OnDisconnect != nil {
		e.opts.OnDisconnect(e)
	}

	return err
}

// Submit assigns a stream and queues req to be sent. The returned Ctx
// is passed to Await to block for the response. If ctx is cancelled (or
// carries a deadline that expires) before the response completes, the
// stream is reset with CancelError.
func (e *Engine) Submit(ctx context.Context, req *Request) (*Ctx, error) {
	if e.Closed() {
		return nil, ErrEngineClosed
	}
	if e.goAwayReceived {
		return nil, ErrGoAway
	}

	h := AcquireCtx()
	h.Request = req
	h.Response = AcquireResponse()
	h.Response.Header.SetHPACK(e.dec)

	runCtx, cancel := context.WithCancel(ctx)
	h.ctx = runCtx
	h.cancel = cancel

	e.in <- h

	go e.watchCancellation(h)

	return h, nil
}

func (e *Engine) watchCancellation(h *Ctx) {
	<-h.ctx.Done()
	if h.ctx.Err() == nil {
		return // finished normally, not cancelled
	}

	if v, ok := e.pending.Load(h.streamID); ok && v.(*Ctx) == h {
		fr := AcquireFrameHeader()
		fr.SetStream(h.streamID)
		rst := AcquireFrame(FrameResetStream).(*RstStream)
		rst.SetCode(CancelError)
		fr.SetBody(rst)

		select {
		case e.out <- fr:
		default:
			ReleaseFrameHeader(fr)
		}

		// The peer sends nothing back for a RST_STREAM, so wake Await
		// here rather than waiting on the reader.
		e.pending.Delete(h.streamID)
		h.finish(h.ctx.Err())
	}
}

// Await blocks until h's response is complete (or its context is
// cancelled) and returns it.
func (e *Engine) Await(h *Ctx) (*Response, error) {
	err := <-h.Err
	return h.Response, err
}

func (e *Engine) writeLoop() {
	defer func() { _ = e.Close() }()

	ticker := time.NewTicker(e.opts.PingInterval)
	defer ticker.Stop()

	var lastErr error

loop:
	for {
		select {
		case h, ok := <-e.in:
			if !ok {
				break loop
			}

			id, err := e.writeRequest(h)
			if err != nil {
				h.finish(err)

				if errors.Is(err, ErrNotAvailableStreams) {
					continue
				}

				lastErr = WriteError{err}
				break loop
			}

			h.SetStream(id)
			e.pending.Store(id, h)

		case fr := <-e.out:
			if _, err := fr.WriteTo(e.bw); err == nil {
				if err = e.bw.Flush(); err != nil {
					lastErr = WriteError{err}
					ReleaseFrameHeader(fr)
					break loop
				}
			} else {
				lastErr = WriteError{err}
				ReleaseFrameHeader(fr)
				break loop
			}
			ReleaseFrameHeader(fr)

		case <-ticker.C:
			if err := e.writePing(); err != nil {
				lastErr = WriteError{err}
				break loop
			}
		}

		if !e.opts.DisablePingChecking && e.unacks >= 3 {
			lastErr = ErrTimeout
			break loop
		}
	}

	if lastErr == nil {
		lastErr = io.EOF
	}
	e.lastErr = lastErr

	e.pending.Range(func(_, v interface{}) bool {
		v.(*Ctx).finish(lastErr)
		return true
	})
}

func (e *Engine) canOpenStream() bool {
	return e.streams.CountOpen() < int(e.peer.MaxConcurrentStreams())
}

func (e *Engine) writeRequest(h *Ctx) (uint32, error) {
	if !e.canOpenStream() {
		return 0, ErrNotAvailableStreams
	}

	req := h.Request
	body := req.Body()
	hasBody := len(body) != 0

	id := e.nextID
	e.nextID += 2

	st := NewStream(id, int(e.peer.MaxWindowSize()), nil)
	st.SetState(StreamStateOpen)
	e.streams.Insert(st)

	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)
	fr.SetStream(id)

	hdr := AcquireFrame(FrameHeaders).(*Headers)
	fr.SetBody(hdr)

	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	hf.SetBytes(StringAuthority, req.Header.Authority())
	hdr.AppendHeaderField(e.enc, hf, true)

	hf.SetBytes(StringMethod, req.Header.Method())
	hdr.AppendHeaderField(e.enc, hf, true)

	hf.SetBytes(StringPath, req.Header.Path())
	hdr.AppendHeaderField(e.enc, hf, true)

	hf.SetBytes(StringScheme, req.Header.Scheme())
	hdr.AppendHeaderField(e.enc, hf, true)

	if ua := req.Header.UserAgent(); len(ua) > 0 {
		hf.SetBytes(StringUserAgent, ua)
		hdr.AppendHeaderField(e.enc, hf, true)
	}

	req.Header.VisitAll(func(k, v []byte) {
		if bytes.EqualFold(k, StringUserAgent) {
			return
		}
		hf.SetBytes(ToLower(append([]byte(nil), k...)), v)
		hdr.AppendHeaderField(e.enc, hf, false)
	})

	hdr.SetPadding(false)
	hdr.SetEndStream(!hasBody)
	hdr.SetEndHeaders(true)

	if _, err := fr.WriteTo(e.bw); err != nil {
		return id, err
	}

	if hasBody {
		if err := e.writeData(h.Context(), fr, body); err != nil {
			return id, err
		}
		st.EndLocal()
	} else {
		st.EndLocal()
	}

	if err := e.bw.Flush(); err != nil {
		return id, err
	}

	return id, nil
}

// writeData chunks body into DATA frames no larger than
// SETTINGS_MAX_FRAME_SIZE, and no larger than the connection's or the
// stream's currently available send window (RFC 7540 §6.9): when either
// window is exhausted, it flushes what has already been written and
// blocks on WaitSendable until a WINDOW_UPDATE (or ctx cancellation, or
// engine shutdown) unblocks it, instead of writing past the window.
func (e *Engine) writeData(ctx context.Context, fh *FrameHeader, body []byte) error {
	data := AcquireFrame(FrameData).(*Data)
	fh.SetBody(data)

	connFC := e.flow.Conn()
	streamFC := e.flow.Stream(fh.Stream())

	for i := 0; i < len(body); {
		chunk := len(body) - i
		if chunk > int(defaultMaxFrameSize) {
			chunk = int(defaultMaxFrameSize)
		}

		connAvail, err := connFC.WaitSendable(ctx)
		if err != nil {
			return err
		}
		streamAvail, err := streamFC.WaitSendable(ctx)
		if err != nil {
			return err
		}

		if int(connAvail) < chunk {
			chunk = int(connAvail)
		}
		if int(streamAvail) < chunk {
			chunk = int(streamAvail)
		}
		if chunk <= 0 {
			return NewError(FlowControlError, ScopeStream, "no send window available to write DATA")
		}

		if err := connFC.OnDataSent(int32(chunk)); err != nil {
			return err
		}
		if err := streamFC.OnDataSent(int32(chunk)); err != nil {
			return err
		}

		data.SetEndStream(i+chunk == len(body))
		data.SetPadding(false)
		data.SetData(body[i : i+chunk])

		if _, err := fh.WriteTo(e.bw); err != nil {
			return err
		}
		if err := e.bw.Flush(); err != nil {
			return err
		}

		i += chunk
	}

	return nil
}

func (e *Engine) writePing() error {
	fr := AcquireFrameHeader()
	defer ReleaseFrameHeader(fr)

	ping := AcquireFrame(FramePing).(*Ping)
	ping.SetCurrentTime()
	fr.SetBody(ping)

	_, err := fr.WriteTo(e.bw)
	if err == nil {
		err = e.bw.Flush()
		if err == nil {
			e.unacks++
		}
	}

	return err
}

func (e *Engine) readLoop() {
	defer func() { _ = e.Close() }()

	for {
		fr, err := ReadFrameFrom(e.br)
		if err != nil {
			// RFC 7540 §4.1: implementations MUST ignore and discard
			// frames of unknown type. This is not a connection error.
			if errors.Is(err, ErrUnknownFrameType) {
				continue
			}
			e.lastErr = err
			break
		}

		if fr.Stream() == 0 {
			if stop := e.handleConnFrame(fr); stop {
				ReleaseFrameHeader(fr)
				break
			}
			ReleaseFrameHeader(fr)
			continue
		}

		if v, ok := e.pending.Load(fr.Stream()); ok {
			h := v.(*Ctx)

			if err := e.readStream(fr, h); err == nil {
				if fr.Flags().Has(FlagEndStream) {
					e.finishStream(h, fr.Stream(), nil)
				}
			} else {
				e.finishStream(h, fr.Stream(), err)

				// A peer-chosen RST_STREAM code only ever terminates
				// that one stream (RFC 7540 §6.4); it must never be
				// mistaken for this side's own flow-control accounting
				// or HPACK decoding failing, the two errors that tear
				// down the whole connection.
				if fr.Type() != FrameResetStream && (errors.Is(err, &H2Error{Code: FlowControlError}) ||
					errors.Is(err, &H2Error{Code: CompressionError})) {
					ReleaseFrameHeader(fr)
					break
				}
			}
		} else if _, closed := e.closedStreams[fr.Stream()]; closed {
			// RFC 7540 §5.1: a frame for a stream already closed
			// cleanly is a stream error, not silent noise.
			e.sendRstStream(fr.Stream(), StreamClosedError)
		}

		ReleaseFrameHeader(fr)
	}
}

func (e *Engine) sendRstStream(streamID uint32, code ErrorCode) {
	fr := AcquireFrameHeader()
	fr.SetStream(streamID)

	rs := AcquireFrame(FrameResetStream).(*RstStream)
	rs.SetCode(code)
	fr.SetBody(rs)

	e.out <- fr
}

func (e *Engine) finishStream(h *Ctx, streamID uint32, err error) {
	if st := e.streams.Del(streamID); st != nil {
		// An error (RST_STREAM, local failure) always ends the stream
		// outright; a clean END_STREAM only closes the remote half,
		// relying on EndLocal (already applied when the request's own
		// END_STREAM was written) to have done the other half.
		if err != nil {
			st.Reset(err)
		} else {
			st.EndRemote()
			// Only a clean, error-free close makes a later frame on
			// this id an unambiguous STREAM_CLOSED violation — a
			// stream torn down by RST_STREAM may legitimately still
			// see frames the peer had in flight (RFC 7540 §5.1).
			e.closedStreams[streamID] = struct{}{}
		}
	}
	e.flow.CloseStream(streamID)
	e.pending.Delete(streamID)
	h.finish(err)
}

// handleConnFrame processes a connection-level (stream 0) frame and
// reports whether the read loop must stop.
func (e *Engine) handleConnFrame(fr *FrameHeader) bool {
	switch fr.Type() {
	case FrameSettings:
		st := fr.Body().(*Settings)
		if !st.IsAck() {
			e.handleSettings(st)
		}
	case FrameWindowUpdate:
		win := int32(fr.Body().(*WindowUpdate).Increment())
		_ = e.flow.Conn().OnWindowUpdate(win)
	case FramePing:
		ping := fr.Body().(*Ping)
		if !ping.Ack() {
			e.handlePing(ping)
		} else {
			e.unacks--
		}
	case FrameGoAway:
		ga := fr.Body().(*GoAway)
		e.handleGoAway(ga)
		return true
	}

	return false
}

func (e *Engine) handleGoAway(ga *GoAway) {
	e.goAwayReceived = true
	e.lastPeerStreamID = ga.Stream()

	e.opts.Logger.Printf("h2: received %s", ga.Error())

	refused := NewError(RefusedStream, ScopeStream, ga.Error())
	e.pending.Range(func(k, v interface{}) bool {
		if k.(uint32) > ga.Stream() {
			v.(*Ctx).finish(refused)
			e.pending.Delete(k)
		}
		return true
	})
}

func (e *Engine) handleSettings(st *Settings) {
	if err := e.applyPeerSettings(st); err != nil {
		e.lastErr = err
		return
	}

	fr := AcquireFrameHeader()
	stRes := AcquireFrame(FrameSettings).(*Settings)
	stRes.SetAck(true)
	fr.SetBody(stRes)

	e.out <- fr
}

func (e *Engine) handlePing(ping *Ping) {
	fr := AcquireFrameHeader()
	ping.SetAck(true)
	fr.SetBody(ping)
	e.out <- fr
}

func (e *Engine) readStream(fr *FrameHeader, h *Ctx) error {
	switch fr.Type() {
	case FrameHeaders, FrameContinuation:
		// The decoder's per-block limits span a whole HEADERS plus
		// CONTINUATION run, so they restart only on HEADERS.
		if fr.Type() == FrameHeaders {
			e.dec.StartHeaderBlock()
		}
		fh := fr.Body().(FrameWithHeaders)
		if h.headersDone {
			if err := e.readTrailerBlock(fh.Headers(), h); err != nil {
				return err
			}
			return nil
		}
		if err := e.readHeaderBlock(fh.Headers(), h); err != nil {
			return err
		}
		if fr.Flags().Has(FlagEndHeaders) {
			h.headersDone = true
		}
		return nil

	case FramePriority:
		pr := fr.Body().(*Priority)
		if st := e.streams.Get(fr.Stream()); st != nil {
			st.SetPriority(pr.Stream(), pr.Weight(), pr.Exclusive())
		}

	case FrameData:
		data := fr.Body().(*Data)
		n := int32(data.Len())

		if n > 0 {
			h.Response.Write(data.Data())

			if inc, send := e.flow.Stream(fr.Stream()).OnDataReceived(n); send {
				e.sendWindowUpdate(fr.Stream(), inc)
			}
		}

		if inc, send := e.flow.Conn().OnDataReceived(n); send {
			e.sendWindowUpdate(0, inc)
		}

	case FrameWindowUpdate:
		wu := fr.Body().(*WindowUpdate)
		if err := e.flow.Stream(fr.Stream()).OnWindowUpdate(int32(wu.Increment())); err != nil {
			return err
		}

	case FrameResetStream:
		rs := fr.Body().(*RstStream)
		return rs.Error(fr.Stream())
	}

	return nil
}

func (e *Engine) sendWindowUpdate(streamID uint32, size int32) {
	fr := AcquireFrameHeader()
	fr.SetStream(streamID)

	wu := AcquireFrame(FrameWindowUpdate).(*WindowUpdate)
	wu.SetIncrement(int(size))
	fr.SetBody(wu)

	e.out <- fr
}

func (e *Engine) readHeaderBlock(b []byte, h *Ctx) error {
	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	var err error
	for len(b) > 0 {
		b, err = e.dec.Next(hf, b)
		if err != nil {
			return err
		}
		if err := h.Response.Header.ApplyField(hf); err != nil {
			return err
		}
	}

	return nil
}

// readTrailerBlock decodes a HEADERS/CONTINUATION block arriving after
// the response's leading header set has already closed: RFC 7540 §8.1
// trailing headers, sent with END_STREAM and no further DATA.
func (e *Engine) readTrailerBlock(b []byte, h *Ctx) error {
	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	var err error
	for len(b) > 0 {
		b, err = e.dec.Next(hf, b)
		if err != nil {
			return err
		}
		if err := h.Response.Header.ApplyTrailerField(hf); err != nil {
			return err
		}
	}

	return nil
}
