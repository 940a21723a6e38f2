package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/fridgechef/internal/config"
	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/engine"
	"github.com/hammamikhairi/fridgechef/internal/logger"
	"github.com/hammamikhairi/fridgechef/internal/recipe"
	"github.com/hammamikhairi/fridgechef/internal/spoonacular"
	"github.com/hammamikhairi/fridgechef/internal/speech"
)

// deps holds everything a command needs. Call close when done.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	api     domain.RecipeAPI
	speaker domain.Speaker
	closers []func()
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func (d *deps) engine(opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithResultLimit(d.cfg.Limit()),
		engine.WithVoice(engine.Voice{
			Locale: d.cfg.Speech.Locale,
			Rate:   d.cfg.Speech.Rate,
			Volume: d.cfg.Speech.Volume,
		}),
	}
	return engine.New(d.api, d.speaker, d.log, append(base, opts...)...)
}

// loadConfig reads the configuration and applies command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Changed("offline") {
		cfg.Offline, _ = flags.GetBool("offline")
	}
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
	}
	if flags.Changed("no-speech") {
		noSpeech, _ := flags.GetBool("no-speech")
		cfg.Speech.Enabled = !noSpeech
	}
	if flags.Changed("limit") {
		cfg.ResultLimit, _ = flags.GetInt("limit")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	// Configure logger.
	flags := cmd.Flags()
	logLevel := logger.LevelNormal
	if v, _ := flags.GetBool("verbose"); v {
		logLevel = logger.LevelVerbose
	}
	if q, _ := flags.GetBool("quiet"); q {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the terminal stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			d.closers = append(d.closers, func() { _ = f.Close() })
		}
	}

	log := logger.New(logLevel, logOut)
	d.log = log
	// Some dependencies log through the standard library.
	d.closers = append(d.closers, log.RedirectStdLog(), log.Sync)
	log.Info("fridgechef %s starting: %s", version, cfg.Summary())

	d.api, err = recipeAPI(cfg, log)
	if err != nil {
		d.close()
		return nil, err
	}
	d.speaker = d.newSpeaker()
	return d, nil
}

func recipeAPI(cfg *config.Config, log *logger.Logger) (domain.RecipeAPI, error) {
	if !cfg.UseOffline() {
		return spoonacular.NewClient(cfg.Spoonacular.APIKey, log,
			spoonacular.WithBaseURL(cfg.Spoonacular.BaseURL),
			spoonacular.WithHTTPTimeout(cfg.Spoonacular.Timeout),
			spoonacular.WithRateLimit(cfg.Spoonacular.RequestsPerSecond),
		), nil
	}

	if !cfg.Offline {
		log.Info("no Spoonacular API key configured, using the offline catalog")
	}
	src := recipe.NewMemorySource(log)
	if cfg.Catalog != "" {
		if _, err := src.LoadFile(cfg.Catalog); err != nil {
			return nil, fmt.Errorf("loading catalog %s: %w", cfg.Catalog, err)
		}
	}
	return src, nil
}

// newSpeaker picks Azure narration when it is configured and an audio
// device is available, and the silent speaker otherwise.
func (d *deps) newSpeaker() domain.Speaker {
	cfg, log := d.cfg, d.log
	silent := speech.NewSilent(log, 1)

	if !cfg.Speech.Enabled {
		log.Info("TTS disabled by configuration")
		return silent
	}
	if !cfg.AzureConfigured() {
		log.Info("TTS disabled: set AZURE_SPEECH_KEY and AZURE_SPEECH_REGION to enable")
		return silent
	}

	player, err := speech.NewPlayer(log)
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return silent
	}

	tts := speech.NewAzureClient(cfg.Speech.AzureKey, cfg.Speech.AzureRegion, log,
		speech.WithVoice(cfg.Speech.Voice),
	)
	narrator := speech.NewNarrator(tts, player, log,
		speech.WithCacheDir(cfg.Speech.CacheDir),
		speech.WithDiskWrite(cfg.Speech.DiskCache),
	)
	d.closers = append(d.closers, narrator.Close)
	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.Speech.AzureRegion)
	return narrator
}
