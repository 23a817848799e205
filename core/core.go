package kamin

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// Core is the central actor that owns the session and handles requests.
type Core struct {
	session  *Session
	requests chan coreRequest
	listener net.Listener
	done     chan struct{}
	once     sync.Once
}

type coreRequest struct {
	msg      map[string]any
	response chan map[string]any
}

// NewCore listens on sockPath and serves evaluations from session.
func NewCore(sockPath string, session *Session) (*Core, error) {
	// Clean up stale socket
	os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return &Core{
		session:  session,
		requests: make(chan coreRequest, 64),
		listener: listener,
		done:     make(chan struct{}),
	}, nil
}

// Addr returns the socket address the core listens on.
func (c *Core) Addr() net.Addr {
	return c.listener.Addr()
}

// Run starts the actor goroutine and accepts connections. Blocks until
// Shutdown.
func (c *Core) Run() {
	go c.actorLoop()
	c.acceptClients()
}

func (c *Core) acceptClients() {
	for {
		conn, err := c.listener.Accept()
		if err != nil {
			return
		}
		go c.handleClientConnection(conn)
	}
}

// Shutdown cleanly stops the core. Safe to call more than once.
func (c *Core) Shutdown() {
	c.once.Do(func() {
		c.listener.Close()
		close(c.done)
	})
}

// actorLoop is the single goroutine that evaluates. Requests are served in
// arrival order.
func (c *Core) actorLoop() {
	for {
		select {
		case req := <-c.requests:
			req.response <- c.handleRequest(req.msg)
		case <-c.done:
			return
		}
	}
}

// sendToActor sends a request to the core actor and waits for the response.
func (c *Core) sendToActor(msg map[string]any) (map[string]any, bool) {
	resp := make(chan map[string]any, 1)
	select {
	case c.requests <- coreRequest{msg: msg, response: resp}:
	case <-c.done:
		return nil, false
	}
	select {
	case r := <-resp:
		return r, true
	case <-c.done:
		return nil, false
	}
}

func (c *Core) handleRequest(msg map[string]any) map[string]any {
	id, _ := msg["id"].(string)

	op, _ := msg["op"].(string)
	if op == "" {
		// No op: return the manual
		return coreManual(id)
	}

	switch op {
	case "eval":
		return c.handleEval(id, msg)
	case "traces":
		return c.handleTraces(id, msg)
	case "history":
		return c.handleHistory(id, msg)
	case "clear":
		return c.handleClear(id)
	default:
		return errorResponse(id, fmt.Sprintf("unknown op: %s", op))
	}
}

func coreManual(id string) map[string]any {
	builtins := make([]any, 0)
	for _, name := range BuiltinNames() {
		builtins = append(builtins, name)
	}
	forms := make([]any, 0)
	for _, name := range FormNames() {
		forms = append(forms, name)
	}
	return map[string]any{
		"id": id,
		"ok": true,
		"value": map[string]any{
			"name":    "kamin-core",
			"version": "1.0.0",
			"ops": map[string]any{
				"eval":    "Evaluate one expression. Params: expr (string)",
				"traces":  "Recent evaluations held in memory. Params: limit (int, optional)",
				"history": "Recent evaluations from the history database. Params: limit (int, optional)",
				"clear":   "Drop recorded traces and stored history.",
			},
			"builtins": builtins,
			"forms":    forms,
		},
	}
}

func (c *Core) handleEval(id string, msg map[string]any) map[string]any {
	expr, ok := msg["expr"].(string)
	if !ok {
		return errorResponse(id, "eval: missing 'expr' string")
	}
	trace := c.session.Eval(expr)
	if !trace.OK() {
		resp := errorResponse(id, trace.Error)
		resp["kind"] = trace.Kind
		resp["output"] = trace.Output
		return resp
	}
	return map[string]any{"id": id, "ok": true, "value": trace.Result, "output": trace.Output}
}

func (c *Core) handleTraces(id string, msg map[string]any) map[string]any {
	limit, err := limitParam(msg)
	if err != nil {
		return errorResponse(id, "traces: "+err.Error())
	}
	return map[string]any{"id": id, "ok": true, "value": tracesToList(c.session.Traces(limit))}
}

func (c *Core) handleHistory(id string, msg map[string]any) map[string]any {
	limit, err := limitParam(msg)
	if err != nil {
		return errorResponse(id, "history: "+err.Error())
	}
	traces, err := c.session.History(limit)
	if err != nil {
		return errorResponse(id, "history: "+err.Error())
	}
	return map[string]any{"id": id, "ok": true, "value": tracesToList(traces)}
}

func (c *Core) handleClear(id string) map[string]any {
	if err := c.session.Clear(); err != nil {
		return errorResponse(id, err.Error())
	}
	return map[string]any{"id": id, "ok": true, "value": "cleared"}
}

// limitParam reads the optional "limit" field. JSON numbers arrive as float64.
func limitParam(msg map[string]any) (int, error) {
	raw, ok := msg["limit"]
	if !ok || raw == nil {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, errors.New("limit must be an integer")
	}
	return int(f), nil
}

func tracesToList(traces []Trace) []any {
	result := make([]any, len(traces))
	for i := range traces {
		result[i] = traces[i].ToMap()
	}
	return result
}

func errorResponse(id, errMsg string) map[string]any {
	return map[string]any{"id": id, "ok": false, "error": errMsg}
}

// --- Connection handling ---

func (c *Core) handleClientConnection(conn net.Conn) {
	defer conn.Close()

	for {
		msg, err := ReadMsg(conn)
		if err != nil {
			if err != io.EOF {
				log.Printf("read client message: %v", err)
			}
			return
		}

		resp, ok := c.sendToActor(msg)
		if !ok {
			return
		}
		if err := WriteMsg(conn, resp); err != nil {
			log.Printf("write client response: %v", err)
			return
		}
	}
}
