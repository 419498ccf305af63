package h2

import (
	"context"
	"sync"
)

// Ctx is the handle returned by Engine.Submit: the bookkeeping the
// engine's two goroutines share for one in-flight request/response
// exchange, plus the channel Engine.Await blocks on.
//
// Only the writer goroutine sets streamID (at the point it assigns and
// sends the request); only the reader goroutine writes to Response. Err
// receives the outcome from whichever path ends the exchange first: the
// reader, the writer (a failed send or shutdown), Close, or the
// cancellation watcher Submit starts. Request is set once by the
// submitter before Submit and read-only afterwards.
type Ctx struct {
	streamID uint32
	hp       *HPACK

	Request  *Request
	Response *Response

	Err chan error

	ctx    context.Context
	cancel context.CancelFunc

	// headersDone is set by the reader goroutine once the first
	// HEADERS block (the response's leading header set) has been
	// fully decoded. Any later HEADERS block on the same stream is a
	// trailer section (RFC 7540 §8.1) rather than a second response.
	headersDone bool
}

var ctxPool = sync.Pool{
	New: func() interface{} {
		return &Ctx{Err: make(chan error, 1)}
	},
}

// AcquireCtx returns a Ctx from the pool, ready to be filled in by
// Submit.
func AcquireCtx() *Ctx {
	return ctxPool.Get().(*Ctx)
}

// ReleaseCtx resets ctx and returns it to the pool. Callers must not
// hold a reference to ctx or its Err channel afterwards.
func ReleaseCtx(ctx *Ctx) {
	ctx.Reset()
	ctxPool.Put(ctx)
}

func (ctx *Ctx) Reset() {
	ctx.streamID = 0
	ctx.hp = nil
	ctx.Request = nil
	ctx.Response = nil
	ctx.ctx = nil
	ctx.cancel = nil
	ctx.headersDone = false

	// drain without blocking so a stale value can't leak into the next use
	select {
	case <-ctx.Err:
	default:
	}
}

func (ctx *Ctx) SetHPACK(hp *HPACK) {
	ctx.hp = hp
}

func (ctx *Ctx) SetStream(sid uint32) {
	ctx.streamID = sid
}

func (ctx *Ctx) StreamID() uint32 {
	return ctx.streamID
}

func (ctx *Ctx) Context() context.Context {
	return ctx.ctx
}

func (ctx *Ctx) finish(err error) {
	if ctx.cancel != nil {
		ctx.cancel()
	}
	select {
	case ctx.Err <- err:
	default:
	}
}
