// Command modelhostctl is a CLI client for a running modelhost: submit a job,
// check its status, or terminate it. Submitting with no -model flag drops
// into an interactive huh form, the same pattern the teacher's sayl CLI used
// for its own setup wizard before running an attack.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Amr-9/modelhost/internal/tui"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "submit":
		cmdSubmit(os.Args[2:])
	case "status":
		cmdStatus(os.Args[2:])
	case "terminate":
		cmdTerminate(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: modelhostctl <submit|status|terminate> [flags]")
}

func cmdSubmit(args []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	addr := fs.String("addr", "http://127.0.0.1:8080", "Base URL of the modelhost")
	modelID := fs.String("model", "", "Model id to run (omit for an interactive form)")
	debug := fs.Bool("debug", false, "Run the model in debug mode")
	logLevel := fs.String("log-level", string(jobapi.Info), "Job log level (overrides the host default)")
	portsJSON := fs.String("ports", "{}", "JSON object of port bindings")
	fs.Parse(args)

	client := tui.NewClient(*addr)

	var req jobapi.Request
	if *modelID == "" {
		setup := tui.NewSetupModel()
		p := tea.NewProgram(setup)
		if _, err := p.Run(); err != nil {
			fatalf("modelhostctl: %v", err)
		}
		if setup.Aborted() {
			os.Exit(1)
		}
		built, err := setup.Request()
		if err != nil {
			fatalf("modelhostctl: %v", err)
		}
		req = built
	} else {
		var ports map[string]json.RawMessage
		if err := json.Unmarshal([]byte(*portsJSON), &ports); err != nil {
			fatalf("modelhostctl: invalid -ports JSON: %v", err)
		}
		req = jobapi.Request{
			ModelID:  *modelID,
			Debug:    *debug,
			LogLevel: jobapi.LogLevel(*logLevel),
			Ports:    ports,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap, err := client.Submit(ctx, req)
	if err != nil {
		fatalf("modelhostctl: %v", err)
	}
	fmt.Print(tui.RenderSummary(snap))
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	addr := fs.String("addr", "http://127.0.0.1:8080", "Base URL of the modelhost")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap, err := tui.NewClient(*addr).Fetch(ctx)
	if err != nil {
		fatalf("modelhostctl: %v", err)
	}
	fmt.Print(tui.RenderSummary(snap))
}

func cmdTerminate(args []string) {
	fs := flag.NewFlagSet("terminate", flag.ExitOnError)
	addr := fs.String("addr", "http://127.0.0.1:8080", "Base URL of the modelhost")
	timeout := fs.Float64("timeout", 0, "Grace period (seconds) before SIGKILL")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	snap, err := tui.NewClient(*addr).Terminate(ctx, *timeout)
	if err != nil {
		fatalf("modelhostctl: %v", err)
	}
	fmt.Print(tui.RenderSummary(snap))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
