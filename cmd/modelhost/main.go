// Command modelhost is the model execution host: it serves the HTTP facade
// over a single model directory, spawning a worker subprocess per submitted
// job. Invoked with -worker, the same binary instead runs the worker harness
// for one job read from stdin — this is how the host spawns its own workers
// (spec.md §5 "prefer spawn-style process creation").
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amr-9/modelhost/internal/hostconfig"
	"github.com/Amr-9/modelhost/internal/httpapi"
	"github.com/Amr-9/modelhost/internal/ipc"
	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/supervisor"
	"github.com/Amr-9/modelhost/internal/worker"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	isWorker := false
	for _, arg := range os.Args[1:] {
		if arg == "-worker" {
			isWorker = true
			break
		}
	}
	if isWorker {
		runWorker()
		return
	}
	runHost()
}

// runWorker executes the worker harness for exactly one job: input arrives as
// JSON on stdin, and the IPC channel is the file descriptor inherited at fd 3
// (cmd.ExtraFiles[0] in internal/supervisor's spawnProcess).
func runWorker() {
	ipcFile := os.NewFile(3, "ipc")
	if ipcFile == nil {
		fmt.Fprintln(os.Stderr, "worker: missing ipc file descriptor")
		os.Exit(1)
	}
	out := ipc.NewWriter(ipcFile)

	if err := worker.Run(os.Stdin, out); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func runHost() {
	var (
		configPath  string
		modelPath   string
		bindAddress string
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML host configuration file")
	flag.StringVar(&modelPath, "model", "", "Path to a model directory, manifest.json, or model file")
	flag.StringVar(&bindAddress, "bind", "", "Address to bind the HTTP facade to")
	flag.Parse()

	cfg := hostconfig.Default()
	if configPath != "" {
		loaded, err := hostconfig.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading host config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}
	if bindAddress != "" {
		cfg.BindAddress = bindAddress
	}
	if cfg.ModelPath == "" {
		fmt.Fprintln(os.Stderr, "error: no model path given (use -model or set modelPath in the config file)")
		os.Exit(1)
	}

	m, err := manifest.Load(cfg.ModelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading manifest: %v\n", err)
		os.Exit(1)
	}

	sup := supervisor.New(m, cfg.LogLevel)
	handler := httpapi.New(sup)

	server := &http.Server{Addr: cfg.BindAddress, Handler: handler}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("received shutdown signal, draining connections...")
		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
		cancel()
	}()

	fmt.Printf("modelhost listening on %s, serving %s\n", cfg.BindAddress, cfg.ModelPath)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
