package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/berfenger/hwpgen/internal/adapter/codegen"
	"github.com/berfenger/hwpgen/internal/adapter/esp32"
	"github.com/berfenger/hwpgen/internal/adapter/esphome"
	"github.com/berfenger/hwpgen/internal/adapter/loader"
	"github.com/berfenger/hwpgen/internal/config"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/internal/core/service"
	"github.com/berfenger/hwpgen/internal/mqtt"
	"github.com/berfenger/hwpgen/internal/server"
	"github.com/berfenger/hwpgen/internal/util/logutil"
	"github.com/berfenger/hwpgen/internal/watch"
	"go.uber.org/zap"
)

var errNoInput = errors.New("no device document, set --input or HWPGEN_INPUT")

type app struct {
	cfg      *config.Config
	version  string
	pipeline *service.Pipeline
	logger   *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(cfg *config.Config, version string, logger *zap.Logger) (*app, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	pins, err := esp32.NewCatalog(cfg.Board)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		version: version,
		pipeline: &service.Pipeline{
			Registry:     reg,
			Platforms:    esphome.DefaultPlatforms(),
			Pins:         pins,
			NewBuilder:   codegen.NewProgramBuilder,
			FriendlyName: cfg.FriendlyName,
			Logger:       logutil.ComponentLogger("pipeline", logger),
		},
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string) error {
	switch cmd {
	case "validate":
		return a.validate(ctx)
	case "build":
		return a.build(ctx)
	case "entities":
		return a.entities()
	case "discovery":
		return a.discovery(ctx)
	case "publish":
		return a.publish(ctx)
	case "serve":
		return a.serve()
	case "watch":
		return a.watch(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// load reads the input document and returns the pipeline for its
// friendly name.
func (a *app) load() (*loader.Document, *service.Pipeline, error) {
	if a.cfg.Input == "" {
		return nil, nil, errNoInput
	}
	doc, err := loader.LoadFile(a.cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	return doc, a.pipeline.WithFriendlyName(doc.FriendlyName), nil
}

func (a *app) validate(ctx context.Context) error {
	doc, p, err := a.load()
	if err != nil {
		return err
	}
	res, err := p.Validate(ctx, doc.Config)
	if res != nil {
		a.printReport(res.Report)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: configuration valid\n", a.cfg.Input)
	return nil
}

func (a *app) generate(ctx context.Context) (*service.Result, *service.Pipeline, error) {
	doc, p, err := a.load()
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Build(ctx, doc.Config)
	if res != nil {
		a.printReport(res.Report)
	}
	if err != nil {
		return nil, nil, err
	}
	return res, p, nil
}

func (a *app) build(ctx context.Context) error {
	renderer, err := codegen.NewRenderer(a.cfg.Format, a.version)
	if err != nil {
		return err
	}
	res, _, err := a.generate(ctx)
	if err != nil {
		return err
	}
	content, err := renderer.Render(res.Program)
	if err != nil {
		return err
	}
	if a.cfg.Output == "" {
		_, err = a.stdout.Write(content)
		return err
	}
	if err := codegen.WriteFile(a.cfg.Output, content); err != nil {
		return err
	}
	a.logger.Info("main@build: written", zap.String("file", a.cfg.Output), zap.Int("bytes", len(content)))
	return nil
}

func (a *app) entities() error {
	entities, err := service.ListEntities(a.pipeline.Registry, a.pipeline.Platforms)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSECTION\tKIND\tTYPE\tBINDING")
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Key, e.Section, e.Kind, e.GeneratedType, e.BindingName)
	}
	return w.Flush()
}

func (a *app) discoveryMessages(ctx context.Context) ([]mqtt.HADiscoveryMessage, error) {
	res, p, err := a.generate(ctx)
	if err != nil {
		return nil, err
	}
	device := mqtt.NewHADiscoveryDevice(a.cfg.MQTT.NodeId, p.FriendlyName, a.version)
	return mqtt.HADiscoveryMessages(mqtt.TopicsFromConfig(a.cfg.MQTT), res.Program, device)
}

func (a *app) discovery(ctx context.Context) error {
	msgs, err := a.discoveryMessages(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}

func (a *app) publish(ctx context.Context) error {
	msgs, err := a.discoveryMessages(ctx)
	if err != nil {
		return err
	}
	logger := logutil.ComponentLogger("mqtt", a.logger)
	client := mqtt.CreateMQTTClient(a.cfg, mqtt.OptsFromConfig(a.cfg), logger)
	if err := client.ConnectWait(ctx); err != nil {
		return fmt.Errorf("connecting to %s:%d: %w", a.cfg.MQTT.Host, a.cfg.MQTT.Port, err)
	}
	defer client.Disconnect(time.Duration(a.cfg.MQTT.TimeoutMillis) * time.Millisecond)
	return client.PublishDiscovery(ctx, msgs)
}

func (a *app) serve() error {
	srv := server.NewServer(*a.cfg, a.pipeline, a.version, logutil.ComponentLogger("server", a.logger))
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, done)

	a.logger.Info("main@serve: listening", zap.String("addr", srv.Addr))
	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	a.logger.Info("main@serve: graceful shutdown complete")
	return nil
}

func (a *app) watch(ctx context.Context) error {
	if a.cfg.Input == "" {
		return errNoInput
	}
	w := &watch.Watcher{
		Path:     a.cfg.Input,
		Debounce: time.Duration(a.cfg.Watch.DebounceMillis) * time.Millisecond,
		Rebuild:  a.build,
		Logger:   logutil.ComponentLogger("watch", a.logger),
	}
	return w.Run(ctx)
}

func (a *app) printReport(report *schema.Report) {
	if report == nil {
		return
	}
	for _, d := range report.Warnings {
		fmt.Fprintf(a.stderr, "warning: %s\n", d.Error())
	}
	for _, d := range report.Errors {
		fmt.Fprintf(a.stderr, "error: %s\n", d.Error())
	}
}
