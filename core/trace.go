package kamin

// Trace captures one evaluated input line: the source, anything print
// wrote, and the result or error.
type Trace struct {
	Input     string
	Output    string // text written by print during the eval
	Result    string // printed result value, empty on error
	Error     string // rendered error message, empty on success
	Kind      string // error kind name, empty on success
	Timestamp string // ISO 8601
}

// OK reports whether the line evaluated without error.
func (t *Trace) OK() bool {
	return t.Error == ""
}

// ToMap converts a Trace for JSON responses.
func (t *Trace) ToMap() map[string]any {
	m := map[string]any{
		"input":     t.Input,
		"output":    t.Output,
		"timestamp": t.Timestamp,
	}
	if t.OK() {
		m["result"] = t.Result
		m["error"] = nil
	} else {
		m["result"] = nil
		m["error"] = t.Error
		m["kind"] = t.Kind
	}
	return m
}
