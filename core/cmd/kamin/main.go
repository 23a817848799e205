package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterh/liner"

	kamin "github.com/rphilander/kamin/core"
	"github.com/rphilander/kamin/history"
)

func main() {
	cfg, err := kamin.LoadConfig(os.Getenv("KAMIN_CONFIG"), os.Getenv)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var opts []kamin.SessionOption
	opts = append(opts, kamin.WithMaxTraces(cfg.MaxTraces))
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("open history: %v", err)
		}
		defer store.Close()
		opts = append(opts, kamin.WithStore(store))
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			serve(cfg, kamin.NewSession(opts...))
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: %s [serve]\n", os.Args[0])
			os.Exit(2)
		}
	}

	opts = append(opts, kamin.WithOutput(os.Stdout))
	if err := repl(cfg, kamin.NewSession(opts...)); err != nil {
		log.Fatalf("repl: %v", err)
	}
}

func repl(cfg kamin.Config, session *kamin.Session) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if cfg.LineHistory != "" {
		if f, err := os.Open(cfg.LineHistory); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(cfg.LineHistory)
			if err != nil {
				log.Printf("write line history: %v", err)
				return
			}
			defer f.Close()
			line.WriteHistory(f)
		}()
	}

	r := &kamin.REPL{
		In:      line,
		Out:     os.Stdout,
		Session: session,
		Prompt:  cfg.Prompt,
	}
	return r.Run()
}

func serve(cfg kamin.Config, session *kamin.Session) {
	core, err := kamin.NewCore(cfg.SockPath, session)
	if err != nil {
		log.Fatalf("failed to start core: %v", err)
	}

	// Handle shutdown signals
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("shutting down...")
		core.Shutdown()
	}()

	log.Printf("kamin core listening on %s", cfg.SockPath)
	core.Run()
	os.Remove(cfg.SockPath)
}
