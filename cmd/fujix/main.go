package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/session"
	"github.com/fujix-tas/fujix/settings"
	"github.com/fujix-tas/fujix/transport"
	"github.com/fujix-tas/fujix/world"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

// demoMap is used when no map file is given.
const demoMap = `
........................................
........................................
........................................
..........................#####.........
........................................
........................................
.................####...................
........................................
........................................
..S.....................................
............................FFFF........
########################################
`

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "settings file, created with defaults when missing")
	mapPath := pflag.StringP("map", "m", "", "ASCII map file, a small demo map when empty")
	playPath := pflag.StringP("play", "p", "", "replay an input log headlessly and print the final state")
	connect := pflag.String("connect", "", "websocket server to predict against")
	pflag.Parse()

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error creating config: %v\n", err)
			os.Exit(1)
		}
	}
	conf, err := settings.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
		os.Exit(1)
	}
	if *connect != "" {
		conf.Transport.URL = *connect
	}

	log := newLogger(conf)
	if conf.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: conf.Sentry.DSN}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}
	if conf.Debug.StatsView {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.Debug.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	name, w, err := loadMap(*mapPath)
	if err != nil {
		log.WithError(err).Fatal("unable to load map")
	}
	s := session.New(log, conf, name, w, func(line string) { fmt.Println(line) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *playPath != "":
		err = replayHeadless(s, *playPath)
	case conf.Transport.URL != "":
		err = runOnline(ctx, s, conf.Transport.URL, log)
	default:
		pflag.Usage()
		return
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := s.Close(closeCtx); cerr != nil {
		log.WithError(cerr).Error("unable to finish recording")
	}
	if err != nil {
		log.WithError(err).Error("session ended")
		os.Exit(1)
	}
}

func newLogger(conf settings.Settings) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if lvl, err := logrus.ParseLevel(conf.Logging.Level); err == nil {
		log.Level = lvl
	}
	if conf.Logging.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   conf.Logging.File,
			MaxSize:    conf.Logging.MaxSizeMB,
			MaxBackups: 3,
			MaxAge:     7,
		}))
	}
	return log
}

func loadMap(path string) (string, *world.World, error) {
	if path == "" {
		w, err := world.ParseASCII(strings.TrimSpace(demoMap))
		return "demo", w, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	w, err := world.ParseASCII(string(data))
	if err != nil {
		return "", nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return path, w, nil
}

// replayHeadless plays the log at path against the map as fast as possible.
func replayHeadless(s *session.Session, path string) error {
	if err := s.Exec("play " + path); err != nil {
		return err
	}
	for s.Loading() {
		s.EndTick()
		time.Sleep(time.Millisecond)
	}
	if !s.Playing() {
		return fmt.Errorf("unable to play %s", path)
	}

	tick := s.Tick()
	for s.Playing() {
		tick++
		if _, err := s.HandleInput(tick, physics.InputFrame{}); err != nil {
			return err
		}
		s.EndTick()
	}
	core := s.PredictedCore()
	fmt.Printf("final tick %d pos %v vel %v frozen %v checksum %016x\n", core.Tick, core.Pos, core.Vel, core.Frozen(), core.Checksum())
	return nil
}

// runOnline predicts against a server at the fixed tick rate. Console commands are read from stdin.
func runOnline(ctx context.Context, s *session.Session, url string, log *logrus.Logger) error {
	client, err := transport.Dial(ctx, url, log.WithField("component", "transport"))
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer client.Close()

	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- scanner.Text()
		}
	}()

	ticker := time.NewTicker(time.Second / game.TickRate)
	defer ticker.Stop()
	tick := s.Tick()
	var dropped int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return client.Err()
		case line := <-commands:
			if err := s.Exec(line); err != nil {
				fmt.Println(err)
			}
		case <-ticker.C:
			tick++
			// There is no local input device; playback or an idle tee is predicted.
			in := physics.InputFrame{}
			if _, err := s.HandleInput(tick, in); err != nil {
				log.WithError(err).Debugf("input for tick %d rejected", tick)
				continue
			}
			if err := client.SendInput(tick, s.PredictedCore().Input); err != nil {
				return fmt.Errorf("send input: %w", err)
			}
			for _, snap := range client.Drain() {
				if rec := s.HandleSnapshot(snap); rec.Err != nil {
					log.WithError(rec.Err).Debugf("snapshot for tick %d rejected", snap.Tick)
				}
			}
			if d := client.Dropped(); d > dropped {
				log.Warnf("dropped %d snapshots the tick loop did not keep up with", d-dropped)
				dropped = d
			}
			s.EndTick()
		}
	}
}
