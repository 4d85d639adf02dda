package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/cyberpuppet/internal/app"
	"github.com/ayusman/cyberpuppet/internal/capture"
	"github.com/ayusman/cyberpuppet/internal/config"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/landmarker"
	"github.com/ayusman/cyberpuppet/internal/publish"
	"github.com/ayusman/cyberpuppet/internal/server"
	"github.com/ayusman/cyberpuppet/internal/store"
	"github.com/ayusman/cyberpuppet/internal/tray"
)

type serveOptions struct {
	addr    string
	replay  string
	webDir  string
	noTray  bool
	noSound bool
}

func newServeCommand(g *globals) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Track the webcam and serve the puppet",
		Long: `Open the webcam, track gestures and serve the puppet viewer, the JSON API
and the live state websocket. With --replay a recorded session is played
at detection rate instead of using the camera.`,
		Example: `  cyberpuppet serve
  cyberpuppet serve --addr :9000 --no-tray
  cyberpuppet serve --replay testdata/sessions/wave.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from CYBERPUPPET_ADDR)")
	cmd.Flags().StringVar(&opts.replay, "replay", "", "play a recorded session instead of the camera")
	cmd.Flags().StringVar(&opts.webDir, "web", "", "directory with the puppet viewer")
	cmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "do not show the system tray icon")
	cmd.Flags().BoolVar(&opts.noSound, "no-sound", false, "start muted")
	return cmd
}

func runServe(ctx context.Context, g *globals, opts *serveOptions) error {
	cfg := g.cfg
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.webDir != "" {
		cfg.WebDir = opts.webDir
	}
	log := g.log

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	settings := st.Settings()
	sound := settings.Bool(store.SettingSound, cfg.Sound) && !opts.noSound

	feed := feedback.NewDispatcher(feedback.Config{Sound: sound}, newSpeaker(cfg, log), log.With().Str("component", "feedback").Logger())

	source, sourceName, err := openSource(cfg, opts)
	if err != nil {
		return err
	}

	journal, err := store.OpenJournal(st, sourceName, log)
	if err != nil {
		source.Close()
		return fmt.Errorf("open journal: %w", err)
	}
	defer journal.Close()
	feed.Subscribe(journal)

	ac, err := appConfig(cfg)
	if err != nil {
		source.Close()
		return err
	}
	ac.Tracking = settings.Bool(store.SettingTracking, true)

	puppet := app.New(ac, source, feed, log.With().Str("component", "app").Logger())
	defer puppet.Close()

	if cfg.MQTT.Broker != "" {
		pub, err := publish.Connect(publish.Config{
			Broker:       cfg.MQTT.Broker,
			ClientID:     cfg.MQTT.ClientID,
			TopicPrefix:  cfg.MQTT.TopicPrefix,
			PoseInterval: cfg.MQTT.PoseInterval,
		}, log.With().Str("component", "mqtt").Logger())
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.MQTT.Broker).Msg("mqtt disabled")
		} else {
			defer pub.Close()
			feed.Subscribe(pub)
			puppet.Subscribe(func(s app.Snapshot) {
				pub.PublishPose(publish.PoseMessage{Label: s.Confirmed, Motion: s.Motion, Pose: s.Pose, At: s.At})
			})
		}
	}

	hub := server.NewHub(server.DefaultLiveInterval, log.With().Str("component", "live").Logger())
	puppet.Subscribe(hub.Publish)

	srv := server.New(server.Config{
		StaticDir:  webDir(cfg.WebDir),
		Store:      st,
		Controller: puppet,
		Frames:     puppet,
		Hub:        hub,
		Log:        log.With().Str("component", "http").Logger(),
	})

	var ui *tray.Tray
	if cfg.Tray && !opts.noTray {
		ui = tray.New(puppet)
		feed.Subscribe(ui)
	}

	feed.Start(ctx)
	if err := puppet.Start(ctx); err != nil {
		return err
	}

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe(ctx, cfg.Addr)
		cancel()
	}()

	url := "http://" + cfg.Addr
	log.Info().Str("url", url).Str("source", sourceName).Bool("sound", sound).Msg("cyber puppet running")

	if ui != nil {
		ui.OnOpen(func() {
			if err := openBrowser(url); err != nil {
				log.Warn().Err(err).Msg("failed to open browser")
			}
		})
		ui.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			ui.Quit()
		}()
		ui.Run()
	}

	<-ctx.Done()
	puppet.Wait()
	feed.Wait()

	if err := <-srvErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info().Msg("stopped")
	return nil
}

// openSource opens the camera pipeline, or a recording with --replay.
func openSource(cfg config.Config, opts *serveOptions) (app.Source, string, error) {
	if opts.replay != "" {
		f, err := os.Open(opts.replay)
		if err != nil {
			return nil, "", err
		}
		return app.NewReplaySource(f), "replay", nil
	}

	det, err := landmarker.NewMediaPipeDetector(landmarker.DefaultConfig())
	if err != nil {
		return nil, "", fmt.Errorf("start detector: %w", err)
	}

	camera := capture.NewCamera(capture.CameraConfig{DeviceID: cfg.CameraID, Mirror: cfg.Mirror})
	gate := capture.NewActivityGate(capture.GateConfig{Threshold: cfg.MotionThreshold, IdleTimeout: cfg.IdleTimeout})

	src, err := app.NewCameraSource(camera, gate, det, cfg.IdleFPS, cfg.ActiveFPS)
	if err != nil {
		gate.Close()
		det.Close()
		return nil, "", fmt.Errorf("open camera %d: %w", cfg.CameraID, err)
	}
	return src, "camera", nil
}
