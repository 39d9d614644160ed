package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"lcdmenu/encoder"
	"lcdmenu/eventpipe"
	"lcdmenu/indicator"
	"lcdmenu/lcd"
	"lcdmenu/menu"
	"lcdmenu/mqtt"
	"lcdmenu/sampler"
)

var myBuild string

// App holds the application state and dependencies.
type App struct {
	cfg     *Config
	logger  *slog.Logger
	bus     encoder.Bus
	sim     *encoder.Sim // non-nil when the bus is simulated
	sampler *sampler.Sampler
	display lcd.Display
	leds    indicator.Indicator
	menu    *menu.Menu
	mqtt    *mqtt.Client
	pipe    *eventpipe.EventPipe
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func main() {
	cfgfile := flag.String("cfg", defaultConfigFile, "Config file")
	logLevelStr := flag.String("log-level", "", "Log level: error, warn, info, debug (overrides config)")
	showVersion := flag.Bool("version", false, "Print build and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lcdmenu build %s\n", myBuild)
		return
	}

	cfg, err := loadConfig(*cfgfile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *logLevelStr != "" {
		cfg.Logging.Level = *logLevelStr
	}
	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger := setupLogger(level)
	logger.Info("lcdmenu starting", "build", myBuild, "config", *cfgfile)

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.init(); err != nil {
		logger.Error("startup failed", "error", err)
		app.release()
		os.Exit(1)
	}
	app.start()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down; waiting for running action")
	cancel()
	app.wg.Wait()
	app.release()
	logger.Info("shutdown complete")
}

// init opens the hardware and builds the sampler and menu.
func (app *App) init() error {
	var err error
	cfg := app.cfg

	app.bus, err = encoder.New(cfg.Encoder)
	if err != nil {
		return fmt.Errorf("init encoder: %w", err)
	}
	app.sim, _ = app.bus.(*encoder.Sim)
	app.logger.Info("encoder bus ready", "type", busType(cfg.Encoder.Type))

	app.sampler = sampler.New(app.bus, menu.Size-1, app.logger.With("component", "sampler"))
	if err := app.sampler.Prime(); err != nil {
		return err
	}

	app.display, err = lcd.New(cfg.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}

	app.leds, err = indicator.New(cfg.Indicator)
	if err != nil {
		return fmt.Errorf("init indicator: %w", err)
	}

	app.menu = menu.New(cfg.Menu, app.display, app.leds, menu.Handlers{
		OnRender: app.onRender,
		OnAction: app.onAction,
	})
	app.menu.SetLogger(app.logger.With("component", "menu"))
	if err := app.menu.Init(); err != nil {
		return fmt.Errorf("init menu: %w", err)
	}

	app.mqtt, err = mqtt.New(cfg.MQTT, cfg.ClientID, mqtt.Handlers{
		OnConnect: app.onMQTTConnect,
		OnMessage: app.onMQTTMessage,
	})
	if err != nil {
		return fmt.Errorf("init MQTT: %w", err)
	}

	if cfg.EventPipe.Path != "" {
		if app.sim == nil {
			app.logger.Warn("event pipe ignored: encoder is not simulated", "path", cfg.EventPipe.Path)
		} else {
			app.pipe, err = eventpipe.New(cfg.EventPipe, eventpipe.Drive(app.sim))
			if err != nil {
				return fmt.Errorf("init event pipe: %w", err)
			}
		}
	}
	return nil
}

// start launches the sampler, menu loop and background senders.
func (app *App) start() {
	period := time.Duration(app.cfg.Sampler.PeriodMs) * time.Millisecond
	cadence := time.Duration(app.cfg.Loop.CadenceMs) * time.Millisecond

	app.wg.Add(2)
	go func() {
		defer app.wg.Done()
		app.sampler.Run(app.ctx, period)
	}()
	go func() {
		defer app.wg.Done()
		app.menu.Run(app.ctx, app.sampler, cadence)
	}()

	go func() {
		if err := app.mqtt.Connect(); err != nil {
			app.logger.Warn("MQTT connect failed", "error", err)
		}
	}()
	go app.pingSender()
	if app.pipe != nil {
		go app.pipe.Start()
	}
}

// release turns the LEDs off, blanks the display and frees hardware. Safe on
// a partially initialised App.
func (app *App) release() {
	if app.pipe != nil {
		app.pipe.Close()
	}
	if app.mqtt != nil {
		app.mqtt.Disconnect()
	}
	if app.leds != nil {
		app.leds.Off()
		if err := app.leds.Release(); err != nil {
			app.logger.Warn("release LEDs", "error", err)
		}
	}
	if app.display != nil {
		app.display.Clear()
		if err := app.display.Release(); err != nil {
			app.logger.Warn("release display", "error", err)
		}
	}
	if app.bus != nil {
		if err := app.bus.Release(); err != nil {
			app.logger.Warn("release encoder", "error", err)
		}
	}
	if app.sampler != nil {
		st := app.sampler.Stats()
		app.logger.Info("sampler stopped", "ticks", st.Ticks, "read_errors", st.ReadErrors)
	}
}

func busType(t string) string {
	if t == "" {
		return "sim"
	}
	return t
}
