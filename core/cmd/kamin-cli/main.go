// Command kamin-cli sends one request to a running kamin core.
//
//	kamin-cli '(+ 1 2)'        evaluate an expression
//	kamin-cli traces [limit]   recent in-memory traces
//	kamin-cli history [limit]  recent stored traces
//	kamin-cli clear            drop traces and history
//	kamin-cli                  read a raw JSON request from stdin
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	kamin "github.com/rphilander/kamin/core"
)

func main() {
	cfg, err := kamin.LoadConfig(os.Getenv("KAMIN_CONFIG"), os.Getenv)
	if err != nil {
		fail("load config: %v", err)
	}

	msg, err := buildRequest(os.Args[1:], os.Stdin)
	if err != nil {
		fail("%v", err)
	}
	if _, ok := msg["id"]; !ok {
		msg["id"] = kamin.NextID()
	}

	conn, err := net.Dial("unix", cfg.SockPath)
	if err != nil {
		fail("connect: %v", err)
	}
	defer conn.Close()

	if err := kamin.WriteMsg(conn, msg); err != nil {
		fail("send: %v", err)
	}
	resp, err := kamin.ReadMsg(conn)
	if err != nil {
		fail("receive: %v", err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fail("format response: %v", err)
	}
	fmt.Println(string(out))
	if ok, _ := resp["ok"].(bool); !ok {
		os.Exit(1)
	}
}

// buildRequest turns command-line arguments into a core request. With no
// arguments the request is read as JSON from stdin; empty stdin asks for
// the manual.
func buildRequest(args []string, stdin io.Reader) (map[string]any, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		msg := map[string]any{}
		if strings.TrimSpace(string(data)) == "" {
			return msg, nil
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		if msg == nil {
			msg = map[string]any{}
		}
		return msg, nil
	}

	switch args[0] {
	case "traces", "history":
		msg := map[string]any{"op": args[0]}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("%s: limit must be an integer", args[0])
			}
			msg["limit"] = n
		}
		return msg, nil
	case "clear":
		return map[string]any{"op": "clear"}, nil
	default:
		return map[string]any{"op": "eval", "expr": strings.Join(args, " ")}, nil
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
