package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"uikit/internal/config"
	"uikit/internal/logging"
	"uikit/internal/trace"
	"uikit/internal/ui"
	"uikit/internal/widget"
)

func main() {
	dir := flag.String("dir", ".", "directory holding uikit.yaml and .env")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: uikit-demo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Interactive demo of buttons, text input and tabs in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logging.For("main")

	policy, err := widget.PolicyByName(cfg.Click.Policy)
	if err != nil {
		return err
	}

	ctx := context.Background()
	exporter, err := trace.NewOTLPExporter(ctx, cfg.Trace.Endpoint, cfg.Trace.Service, cfg.Trace.Insecure)
	if err != nil {
		return err
	}
	manager := trace.NewManager(cfg.Trace.MaxTraces, exporter)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("trace shutdown")
		}
	}()

	var p *tea.Program
	send := func(msg tea.Msg) {
		// Send blocks until the program reads; never stall the caller on it.
		if p != nil {
			go p.Send(msg)
		}
	}

	d, err := newDemo(policy, trace.NewRecorder(manager), func(text string, isErr bool) {
		send(ui.StatusMsg{Text: text, Err: isErr})
	})
	if err != nil {
		return err
	}
	defer d.Close()

	host := ui.NewHost(d.root, d.nav, ui.NewStyles(cfg.Theme),
		ui.WithTraces(manager),
		ui.WithTitle("uikit demo · policy "+policy.Name()),
		ui.WithLogger(logging.For("ui")),
	)
	p = tea.NewProgram(host, tea.WithAltScreen(), tea.WithMouseCellMotion())
	manager.SetOnChange(func() { send(ui.RefreshMsg{}) })

	log.WithField("policy", policy.Name()).Info("starting")
	_, err = p.Run()
	return err
}
