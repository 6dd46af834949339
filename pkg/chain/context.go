package chain

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// state tracks where a request is in its lifecycle. The states are
// mutually exclusive: once a chain is aborted, completed or failed it
// never transitions again.
type state uint8

const (
	stateRunning state = iota
	stateAborted
	stateCompleted
	stateFailed
)

// Context carries a single request through a chain. It is created by
// Chain.ServeHTTP and must not be retained after the handler returns.
type Context struct {
	// Writer wraps the underlying ResponseWriter so middleware can
	// observe the status code and bytes written after calling Next.
	Writer  chimiddleware.WrapResponseWriter
	Request *http.Request

	handlers      []HandlerFunc
	errorHandlers []ErrorHandlerFunc

	index    int
	errIndex int
	state    state
	inError  bool
	err      error
}

// Next advances execution to the remaining handlers in the chain and
// returns once they have all run (or the chain was stopped). A handler
// that never calls Next is advanced automatically when it returns.
// Outside the running window Next is a no-op.
func (c *Context) Next() {
	if c.state != stateRunning {
		return
	}
	if c.inError {
		c.nextError()
		return
	}
	c.index++
	for c.index < len(c.handlers) {
		err := c.handlers[c.index](c)
		if c.state != stateRunning {
			return
		}
		if err != nil {
			c.startErrorChain(err)
			return
		}
		c.index++
	}
}

// Abort stops the chain: no further handlers run, and pending Next
// calls up the stack unwind without effect. Abort is idempotent and a
// no-op once the chain has already terminated.
func (c *Context) Abort() {
	if c.state != stateRunning {
		return
	}
	c.state = stateAborted
}

// AbortWithStatus writes a bare status code and aborts the chain.
func (c *Context) AbortWithStatus(status int) {
	if c.state != stateRunning {
		return
	}
	c.Writer.WriteHeader(status)
	c.state = stateAborted
}

// Aborted reports whether Abort was called.
func (c *Context) Aborted() bool {
	return c.state == stateAborted
}

// Failed reports whether the request is in (or fell out of) the error
// chain. Middleware doing post-processing after Next can use it to
// tell a successful pass from an errored one.
func (c *Context) Failed() bool {
	return c.inError
}

// Err returns the error currently owned by the error chain, nil when
// no handler has failed.
func (c *Context) Err() error {
	return c.err
}

// startErrorChain closes the normal chain and hands the request to the
// error handlers. The same Next/Abort mechanics apply there: an error
// handler that neither calls Next nor Abort is auto-advanced, and a
// non-nil return value replaces the error seen by later handlers.
func (c *Context) startErrorChain(err error) {
	c.err = err
	c.inError = true
	c.index = len(c.handlers)
	c.errIndex = -1
	c.nextError()
}

func (c *Context) nextError() {
	c.errIndex++
	for c.errIndex < len(c.errorHandlers) {
		err := c.errorHandlers[c.errIndex](c, c.err)
		if c.state != stateRunning {
			return
		}
		if err != nil {
			c.err = err
		}
		c.errIndex++
	}
}

// Param returns the named URL parameter from the router.
func (c *Context) Param(name string) string {
	return chi.URLParam(c.Request, name)
}

// Query returns the named query-string parameter.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// DecodeJSON decodes the request body into v.
func (c *Context) DecodeJSON(v interface{}) error {
	return json.NewDecoder(c.Request.Body).Decode(v)
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(status int, v interface{}) error {
	c.Writer.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(status)
	return json.NewEncoder(c.Writer).Encode(v)
}

// NoContent writes a 204 response.
func (c *Context) NoContent() error {
	c.Writer.WriteHeader(http.StatusNoContent)
	return nil
}
