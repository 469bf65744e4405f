// Command keypadx scans a matrix keypad described by a layout file and
// prints every key event.
//
// The sim driver needs no hardware; -type feeds it a string to press.
//
//	keypadx -type "12#"
//	keypadx -layout pad.yaml -watch -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/keypadx"
	"github.com/comalice/keypadx/internal/logging"
	"github.com/comalice/keypadx/internal/production"
	"github.com/comalice/keypadx/layout"
	"github.com/comalice/keypadx/realtime"
)

func main() {
	var (
		layoutPath = flag.String("layout", "", "layout file (.yaml, .toml or .json); empty uses the built-in 4x4")
		watch      = flag.Bool("watch", false, "reload timing from the layout file when it changes")
		tickRate   = flag.Duration("tick", 5*time.Millisecond, "poll interval")
		typed      = flag.String("type", "", "keys to press on the sim driver")
		press      = flag.Duration("press", 80*time.Millisecond, "how long each -type key stays down")
		showDOT    = flag.Bool("dot", false, "print the debounce state machine as DOT on exit")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
		logFormat  = flag.String("log-format", "text", "text or json")
	)
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	format, err := logging.ParseFormat(*logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = format
	logger := logging.New(logCfg)

	if err := run(logger, options{
		layoutPath: *layoutPath,
		watch:      *watch,
		tickRate:   *tickRate,
		typed:      *typed,
		press:      *press,
		showDOT:    *showDOT,
	}); err != nil {
		logger.Error("keypadx failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	layoutPath string
	watch      bool
	tickRate   time.Duration
	typed      string
	press      time.Duration
	showDOT    bool
}

func run(logger *slog.Logger, opts options) error {
	cfg := layout.Default()
	if opts.layoutPath != "" {
		loaded, err := layout.Load(opts.layoutPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer hw.close()

	kpOpts := append(cfg.Options(), keypadx.WithLogger(logger))
	kp := keypadx.New(cfg.RowPinIDs(), hw.columns, cfg.Rows(), cfg.Columns(), hw.io, kpOpts...)
	kp.Begin(cfg.Keymap)
	logger.Info("keypad ready",
		"name", cfg.Name,
		"driver", hw.driver,
		"rows", cfg.Rows(),
		"columns", cfg.Columns(),
		"debounce_ms", kp.DebounceTime(),
		"hold_ms", kp.HoldTime(),
	)

	events := make(chan production.PublishedEvent, 100)
	publisher := production.NewChannelPublisher(cfg.Name, events)
	rt := realtime.NewRunner(kp, realtime.Config{
		TickRate:  opts.tickRate,
		Publisher: publisher,
		Logger:    logger,
	})

	// Time for a final release to settle through Released and Idle.
	settle := 4 * (time.Duration(kp.DebounceTime())*time.Millisecond + opts.tickRate)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rt.Start(ctx); err != nil {
		return err
	}
	defer rt.Stop()

	if opts.watch && opts.layoutPath != "" {
		go func() {
			err := layout.Watch(ctx, opts.layoutPath, func(next *layout.Config) {
				rt.Do(next.Apply)
				logger.Info("layout reloaded", "debounce_ms", next.DebounceMS, "hold_ms", next.HoldMS)
			}, func(err error) {
				logger.Warn("layout reload failed", "error", err)
			})
			if err != nil {
				logger.Warn("layout watch stopped", "error", err)
			}
		}()
	}

	typingDone := make(chan struct{})
	if hw.matrix != nil && opts.typed != "" {
		go func() {
			defer close(typingDone)
			typeKeys(ctx, hw.matrix, cfg, opts.typed, opts.press)
		}()
	}

	visualizer := &production.DefaultVisualizer{}
	for {
		select {
		case ev := <-events:
			printEvent(ev)
		case <-typingDone:
			typingDone = nil
			time.AfterFunc(settle, cancel)
		case <-ctx.Done():
			rt.Stop()
			for len(events) > 0 {
				printEvent(<-events)
			}
			fmt.Print(visualizer.RenderGrid(kp.Size(), cfg.Keymap, kp.Bitmap(), kp.Active(nil)))
			if opts.showDOT {
				keys := kp.Keys()
				fmt.Print(visualizer.ExportDOT(keypadx.Transitions(), keys[:]))
			}
			fmt.Println("Shutting down gracefully...")
			return nil
		}
	}
}

func printEvent(ev production.PublishedEvent) {
	fmt.Printf("%s tick=%d key=%q state=%s\n",
		ev.KeypadID, ev.Event.Tick, ev.Event.Key, ev.Event.State)
}
