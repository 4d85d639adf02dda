package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/ayusman/cyberpuppet/internal/animation"
	"github.com/ayusman/cyberpuppet/internal/app"
	"github.com/ayusman/cyberpuppet/internal/config"
	"github.com/ayusman/cyberpuppet/internal/feedback"
	"github.com/ayusman/cyberpuppet/internal/gesture"
	"github.com/ayusman/cyberpuppet/internal/plugin"
)

// appConfig maps runtime settings onto the pipeline.
func appConfig(cfg config.Config) (app.Config, error) {
	ac := app.DefaultConfig()
	ac.IdleFPS = cfg.IdleFPS
	ac.ActiveFPS = cfg.ActiveFPS
	ac.RenderFPS = cfg.RenderFPS
	ac.Filter = gesture.FilterConfig{Capacity: cfg.ConfirmCapacity, Threshold: cfg.ConfirmThreshold}
	ac.MirrorCursor = !cfg.Mirror

	if cfg.TuningFile != "" {
		tuning, err := animation.LoadTuning(cfg.TuningFile)
		if err != nil {
			return app.Config{}, fmt.Errorf("load tuning: %w", err)
		}
		ac.Tuning = tuning
	}
	return ac, nil
}

// newSpeaker speaks through a plugin when one provides speech and falls
// back to logging phrases.
func newSpeaker(cfg config.Config, log zerolog.Logger) feedback.Speaker {
	mgr := plugin.NewManager(cfg.PluginDir)
	if err := mgr.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", cfg.PluginDir).Msg("plugin discovery failed")
	}

	p, err := mgr.ForAction(plugin.ActionSpeak)
	if err != nil {
		log.Info().Msg("no speech plugin, phrases will only be logged")
		return feedback.NewLogSpeaker(log)
	}

	log.Info().Str("plugin", p.Manifest.Name).Msg("speech plugin found")
	return feedback.NewPluginSpeaker(mgr, plugin.NewExecutor(plugin.DefaultTimeout))
}

// webDir returns dir when it exists, else "".
func webDir(dir string) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
