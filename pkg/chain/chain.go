// Package chain implements the request-dispatch runtime: an ordered
// sequence of middleware pulled through by an iterator, with explicit
// Next/Abort control and a separate error-handling chain.
package chain

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// HandlerFunc processes a request. It may call c.Next to run the rest
// of the chain (and do post-processing after it returns), call c.Abort
// to stop the chain, return an error to divert into the error chain,
// or simply return nil to let the runner advance automatically.
type HandlerFunc func(c *Context) error

// ErrorHandlerFunc handles an error raised by the normal chain. The
// same control rules apply; returning a non-nil error replaces the
// error seen by subsequent error handlers.
type ErrorHandlerFunc func(c *Context, err error) error

// Chain is an immutable, composed middleware pipeline ready to serve
// requests.
type Chain struct {
	handlers      []HandlerFunc
	errorHandlers []ErrorHandlerFunc
}

// ServeHTTP runs the request through the chain. If an error escapes
// every error handler, a plain 500 is written as a last resort.
func (ch *Chain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := &Context{
		Writer:        chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor),
		Request:       r,
		handlers:      ch.handlers,
		errorHandlers: ch.errorHandlers,
		index:         -1,
		errIndex:      -1,
	}
	c.Next()
	if c.state != stateRunning {
		return
	}
	if c.inError {
		// The error chain ran out without anyone claiming the error.
		c.state = stateFailed
		writeUnhandled(c)
		return
	}
	c.state = stateCompleted
}

func writeUnhandled(c *Context) {
	if c.Writer.Status() != 0 {
		return
	}
	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(http.StatusInternalServerError)
	c.Writer.Write([]byte(`{"error":true,"message":"internal server error"}`))
}

// Factory assembles chains that share a common middleware prefix and a
// common set of error handlers.
type Factory struct {
	use        []HandlerFunc
	useOnError []ErrorHandlerFunc
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Use appends shared middleware, run in registration order before any
// per-route middleware and the final handler.
func (f *Factory) Use(h ...HandlerFunc) *Factory {
	f.use = append(f.use, h...)
	return f
}

// UseOnError appends shared error handlers, consulted in registration
// order when a handler returns an error.
func (f *Factory) UseOnError(h ...ErrorHandlerFunc) *Factory {
	f.useOnError = append(f.useOnError, h...)
	return f
}

// With returns a new factory extending this one with additional
// middleware. The receiver is left untouched so route groups can
// branch from a shared prefix.
func (f *Factory) With(h ...HandlerFunc) *Factory {
	nf := &Factory{
		use:        make([]HandlerFunc, 0, len(f.use)+len(h)),
		useOnError: make([]ErrorHandlerFunc, 0, len(f.useOnError)),
	}
	nf.use = append(nf.use, f.use...)
	nf.use = append(nf.use, h...)
	nf.useOnError = append(nf.useOnError, f.useOnError...)
	return nf
}

// Handler composes the shared middleware with the final handler into
// an http.Handler.
func (f *Factory) Handler(final HandlerFunc) http.Handler {
	handlers := make([]HandlerFunc, 0, len(f.use)+1)
	handlers = append(handlers, f.use...)
	handlers = append(handlers, final)
	return &Chain{
		handlers:      handlers,
		errorHandlers: f.useOnError,
	}
}
