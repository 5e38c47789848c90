// internal/httputils/interceptor.go
package httputils

import "net/http"

// Interceptor wraps an http.ResponseWriter and holds back any response whose
// status matches a predicate, so the caller can substitute a different
// response after the wrapped handler returns. Responses with non-matching
// statuses stream through to the client unchanged.
//
// Headers set by the wrapped handler are staged locally and only copied to
// the underlying writer when the response passes through, so an intercepted
// response leaves the underlying writer untouched.
type Interceptor struct {
	rw        http.ResponseWriter
	intercept func(status int) bool

	header      http.Header
	status      int
	wroteHeader bool
	intercepted bool
}

// NewInterceptor creates an interceptor over w. intercept decides, from the
// wrapped handler's status code, whether the response is held back.
func NewInterceptor(w http.ResponseWriter, intercept func(status int) bool) *Interceptor {
	return &Interceptor{
		rw:        w,
		intercept: intercept,
		header:    make(http.Header),
	}
}

// Header returns the staged header map.
func (i *Interceptor) Header() http.Header {
	return i.header
}

// WriteHeader records the status and decides whether to hold the response
// back or start streaming it to the client.
func (i *Interceptor) WriteHeader(code int) {
	if i.wroteHeader {
		return
	}
	i.wroteHeader = true
	i.status = code

	if i.intercept(code) {
		i.intercepted = true
		return
	}

	dst := i.rw.Header()
	for k, vs := range i.header {
		dst[k] = vs
	}
	i.rw.WriteHeader(code)
}

// Write forwards body bytes for pass-through responses and discards them for
// intercepted ones.
func (i *Interceptor) Write(b []byte) (int, error) {
	if !i.wroteHeader {
		i.WriteHeader(http.StatusOK)
	}
	if i.intercepted {
		return len(b), nil
	}
	return i.rw.Write(b)
}

// Flush forwards to the underlying writer for pass-through responses. Like
// net/http's Flusher, flushing before any write commits an implicit 200.
func (i *Interceptor) Flush() {
	if !i.wroteHeader {
		i.WriteHeader(http.StatusOK)
	}
	if i.intercepted {
		return
	}
	if flusher, ok := i.rw.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Intercepted reports whether the response was held back.
func (i *Interceptor) Intercepted() bool {
	return i.intercepted
}

// Status returns the status the wrapped handler responded with, or 0 when it
// never wrote a response.
func (i *Interceptor) Status() int {
	return i.status
}
