package core

// Outcome is the transient tagged result of one authentication attempt. It is
// produced per call, shaped into an AttemptRecord for the telemetry handoff,
// and then discarded; it is never persisted by the engine.
type Outcome struct {
	Method   AuthMethod
	Identity *Identity // set on success
	Failure  *Fault    // set on failure
}

// Succeeded builds a successful outcome.
func Succeeded(identity *Identity, method AuthMethod) Outcome {
	return Outcome{Method: method, Identity: identity}
}

// Failed builds a failed outcome with its taxonomy classification attached.
func Failed(method AuthMethod, fault *Fault) Outcome {
	return Outcome{Method: method, Failure: fault}
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }
