package chain

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, req)
	return rec
}

func TestChain_RunsInOrder(t *testing.T) {
	var order []string
	f := NewFactory().
		Use(func(c *Context) error {
			order = append(order, "first")
			return nil
		}).
		Use(func(c *Context) error {
			order = append(order, "second")
			return nil
		})

	rec := serve(t, f.Handler(func(c *Context) error {
		order = append(order, "final")
		return c.JSON(http.StatusOK, map[string]string{"ok": "yes"})
	}))

	assert.Equal(t, []string{"first", "second", "final"}, order)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChain_AutoAdvanceWithoutNext(t *testing.T) {
	// A middleware that neither calls Next nor Abort must not stall
	// the chain.
	reached := false
	f := NewFactory().Use(func(c *Context) error { return nil })

	serve(t, f.Handler(func(c *Context) error {
		reached = true
		return c.NoContent()
	}))

	assert.True(t, reached)
}

func TestChain_ManualNextAllowsPostProcessing(t *testing.T) {
	var order []string
	f := NewFactory().Use(func(c *Context) error {
		order = append(order, "before")
		c.Next()
		order = append(order, "after")
		return nil
	})

	rec := serve(t, f.Handler(func(c *Context) error {
		order = append(order, "final")
		return c.JSON(http.StatusCreated, map[string]int{"n": 1})
	}))

	assert.Equal(t, []string{"before", "final", "after"}, order)
	// The wrapped writer exposes the status to post-processing code.
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestChain_AbortStopsChain(t *testing.T) {
	reached := false
	f := NewFactory().Use(func(c *Context) error {
		c.AbortWithStatus(http.StatusUnauthorized)
		return nil
	})

	rec := serve(t, f.Handler(func(c *Context) error {
		reached = true
		return nil
	}))

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChain_AbortUnwindsPendingNext(t *testing.T) {
	var order []string
	f := NewFactory().
		Use(func(c *Context) error {
			order = append(order, "outer")
			c.Next()
			order = append(order, "outer-after")
			assert.True(t, c.Aborted())
			return nil
		}).
		Use(func(c *Context) error {
			order = append(order, "inner")
			c.Abort()
			// Both control calls are no-ops once the chain terminated.
			c.Next()
			c.Abort()
			return nil
		})

	serve(t, f.Handler(func(c *Context) error {
		order = append(order, "final")
		return nil
	}))

	assert.Equal(t, []string{"outer", "inner", "outer-after"}, order)
}

func TestChain_ErrorSwitchesToErrorChain(t *testing.T) {
	boom := errors.New("boom")
	var seen error
	reachedFinal := false

	f := NewFactory().
		UseOnError(func(c *Context, err error) error {
			seen = err
			c.Abort()
			return nil
		}).
		Use(func(c *Context) error { return boom })

	serve(t, f.Handler(func(c *Context) error {
		reachedFinal = true
		return nil
	}))

	assert.Equal(t, boom, seen)
	assert.False(t, reachedFinal)
}

func TestChain_ErrorHandlerCanReplaceError(t *testing.T) {
	var final error
	wrapped := errors.New("wrapped")

	f := NewFactory().
		UseOnError(func(c *Context, err error) error {
			return wrapped
		}).
		UseOnError(func(c *Context, err error) error {
			final = err
			c.Abort()
			return nil
		}).
		Use(func(c *Context) error { return errors.New("original") })

	serve(t, f.Handler(func(c *Context) error { return nil }))

	assert.Equal(t, wrapped, final)
}

func TestChain_ErrorChainAutoAdvances(t *testing.T) {
	var calls []string

	f := NewFactory().
		UseOnError(func(c *Context, err error) error {
			calls = append(calls, "one")
			return nil
		}).
		UseOnError(func(c *Context, err error) error {
			calls = append(calls, "two")
			c.Abort()
			return nil
		})

	serve(t, f.Handler(func(c *Context) error { return errors.New("x") }))

	assert.Equal(t, []string{"one", "two"}, calls)
}

func TestChain_UnhandledErrorWrites500(t *testing.T) {
	f := NewFactory() // no error handlers registered

	rec := serve(t, f.Handler(func(c *Context) error {
		return errors.New("nobody catches this")
	}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"internal server error"}`, rec.Body.String())
}

func TestChain_PostProcessingSeesFailure(t *testing.T) {
	sawFailure := false

	f := NewFactory().
		Use(func(c *Context) error {
			c.Next()
			sawFailure = c.Failed()
			return nil
		}).
		UseOnError(func(c *Context, err error) error {
			c.AbortWithStatus(http.StatusBadGateway)
			return nil
		})

	serve(t, f.Handler(func(c *Context) error { return errors.New("downstream") }))

	assert.True(t, sawFailure)
}

func TestFactory_WithDoesNotMutateParent(t *testing.T) {
	var parentCalls, childCalls []string

	parent := NewFactory().Use(func(c *Context) error {
		parentCalls = append(parentCalls, "shared")
		return nil
	})
	child := parent.With(func(c *Context) error {
		childCalls = append(childCalls, "extra")
		return nil
	})

	serve(t, parent.Handler(func(c *Context) error { return nil }))
	assert.Empty(t, childCalls)

	serve(t, child.Handler(func(c *Context) error { return nil }))
	assert.Equal(t, []string{"shared", "shared"}, parentCalls)
	assert.Equal(t, []string{"extra"}, childCalls)
}

func TestFactory_SiblingsKeepSeparateErrorHandlers(t *testing.T) {
	// Registering enough handlers up front leaves the parent's slice
	// with spare capacity; siblings appending into a shared backing
	// array would overwrite each other's handlers.
	parent := NewFactory().
		UseOnError(func(c *Context, err error) error { return nil }).
		UseOnError(func(c *Context, err error) error { return nil }).
		UseOnError(func(c *Context, err error) error { return nil })

	var handled []string
	a := parent.With()
	b := parent.With()
	a.UseOnError(func(c *Context, err error) error {
		handled = append(handled, "a")
		c.Abort()
		return nil
	})
	b.UseOnError(func(c *Context, err error) error {
		handled = append(handled, "b")
		c.Abort()
		return nil
	})

	serve(t, a.Handler(func(c *Context) error { return errors.New("x") }))
	serve(t, b.Handler(func(c *Context) error { return errors.New("y") }))

	assert.Equal(t, []string{"a", "b"}, handled)
}
