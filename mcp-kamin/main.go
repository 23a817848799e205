package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	kamin "github.com/rphilander/kamin/core"
)

// client forwards tool calls to the kamin core socket.
type client struct {
	conn net.Conn
	mu   sync.Mutex
}

// send sends a request to the kamin core and returns the response.
func (c *client) send(req map[string]any) (map[string]any, error) {
	req["id"] = kamin.NextID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := kamin.WriteMsg(c.conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	resp, err := kamin.ReadMsg(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

// formatResult turns a core response into an MCP tool result.
func formatResult(resp map[string]any) (*mcp.CallToolResult, error) {
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return mcp.NewToolResultError(errMsg), nil
	}
	out, err := json.MarshalIndent(map[string]any{
		"value":  resp["value"],
		"output": resp["output"],
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (c *client) handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := c.send(map[string]any{"op": "eval", "expr": expr})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func (c *client) handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := map[string]any{"op": "traces"}
	if limit := request.GetInt("limit", 0); limit > 0 {
		req["limit"] = limit
	}
	resp, err := c.send(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func (c *client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := map[string]any{"op": "history"}
	if limit := request.GetInt("limit", 0); limit > 0 {
		req["limit"] = limit
	}
	resp, err := c.send(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func newServer(c *client) *server.MCPServer {
	s := server.NewMCPServer(
		"kamin",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("kamin_eval",
			mcp.WithDescription("Evaluate one kamin expression. Returns the result value and anything print wrote."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("Expression to evaluate, e.g. (begin (print 1) (+ 2 3))"),
			),
		),
		c.handleEval,
	)

	s.AddTool(
		mcp.NewTool("kamin_traces",
			mcp.WithDescription("List recent evaluations held in memory by the core, oldest first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of traces to return; all when omitted"),
			),
		),
		c.handleTraces,
	)

	s.AddTool(
		mcp.NewTool("kamin_history",
			mcp.WithDescription("List recent evaluations from the history database, oldest first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of entries to return; all when omitted"),
			),
		),
		c.handleHistory,
	)

	return s
}

func main() {
	sockPath := os.Getenv("KAMIN_SOCK")
	if sockPath == "" {
		sockPath = "/tmp/kamin.sock"
	}

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		log.Fatalf("connect to %s: %v", sockPath, err)
	}
	defer conn.Close()
	log.Printf("connected to kamin core: %s", sockPath)

	s := newServer(&client{conn: conn})
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
