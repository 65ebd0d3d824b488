package apiclient

import "context"

// PendingResponse is the handle returned by asynchronous dispatch. The
// completion fires exactly once, on whatever goroutine the transport
// chooses; callers observe it through Done or Wait.
type PendingResponse struct {
	done   chan struct{}
	result Renderable
	err    error
}

func newPendingResponse() *PendingResponse {
	return &PendingResponse{done: make(chan struct{})}
}

// complete records the outcome and releases waiters. Must be called once.
func (p *PendingResponse) complete(result Renderable, err error) {
	p.result = result
	p.err = err
	close(p.done)
}

// Done returns a channel closed once the response has arrived.
func (p *PendingResponse) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until completion or context cancellation.
func (p *PendingResponse) Wait(ctx context.Context) (Renderable, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsFailed reports whether a completed response carries an error. It is
// only meaningful after Done is closed.
func (p *PendingResponse) IsFailed() bool {
	select {
	case <-p.done:
		return p.err != nil
	default:
		return false
	}
}
