package pkcs1pad

// requestState is the per-operation lifecycle:
//
//	initial -> dispatched -> (completedOK | completedErr) -> released
//
// A callback-driven completion routine that can be re-entered from both a
// synchronous and an asynchronous path has to hand-enforce "completion
// happens exactly once, release always runs". primitive.Primitive here is
// always synchronous (it takes a context.Context instead of a callback), so
// every request runs initial -> dispatched -> completed -> released in a
// single call stack, but the type still enforces that same invariant.
type requestState int

const (
	stateInitial requestState = iota
	stateDispatched
	stateCompletedOK
	stateCompletedErr
	stateReleased
)

// request tracks one in-flight encrypt/decrypt/sign/verify call. inBuf is
// the pre-modexp block handed to the primitive (the builder's k-1 octet
// block with its leading 0x00 restored, length k; nil for decrypt/verify);
// outBuf is the normalized copy of the primitive's output. inBuf is freed without zeroization for
// encrypt (PS is not long-term secret) but zeroized for sign (it contains
// the digest block); outBuf is always zeroized on release, since it may
// hold recovered plaintext or signature internals.
type request struct {
	state    requestState
	inBuf    []byte
	outBuf   []byte
	zeroIn   bool
	released bool
}

func newRequest(zeroIn bool) *request {
	return &request{state: stateInitial, zeroIn: zeroIn}
}

func (r *request) dispatch(inBuf []byte) {
	if r.state != stateInitial {
		panic("pkcs1pad: request dispatched twice")
	}
	r.inBuf = inBuf
	r.state = stateDispatched
}

// complete records the terminal status exactly once. It is the single
// completion routine every path (success or error) must reach, regardless
// of how many structural checks ran before it, and it refuses to run
// twice.
func (r *request) complete(outBuf []byte, err error) {
	if r.state != stateDispatched {
		panic("pkcs1pad: request completed from a non-dispatched state")
	}
	r.outBuf = outBuf
	if err != nil {
		r.state = stateCompletedErr
	} else {
		r.state = stateCompletedOK
	}
}

// release zeroizes outBuf unconditionally and inBuf when zeroIn is set,
// then marks the request released. It is safe to call release more than
// once; only the first call has an effect, so callers can defer it
// unconditionally after dispatch without worrying about an earlier
// explicit release.
func (r *request) release() {
	if r.released {
		return
	}
	r.released = true
	if r.zeroIn {
		zero(r.inBuf)
	}
	zero(r.outBuf)
	r.state = stateReleased
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
