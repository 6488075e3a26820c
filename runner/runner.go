package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/kremlit/leadharvest/internal/emailfinder"
	"github.com/kremlit/leadharvest/internal/leads"
	"github.com/kremlit/leadharvest/internal/sink"
	"github.com/kremlit/leadharvest/tlmt"
	"github.com/kremlit/leadharvest/tlmt/gonoop"
	"github.com/kremlit/leadharvest/tlmt/goposthog"
)

const (
	RunModeScrape = iota + 1
	RunModeInstallPlaywright
)

var (
	ErrInvalidRunMode = errors.New("invalid run mode")
	ErrNoQuery        = errors.New("a search query is required (use -query or -input)")
)

// Runner is one run mode of the application.
type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

const (
	defaultMaxScrolls = 15
	defaultResultsDir = "results"
)

// Config holds every knob of a run. Invalid values are corrected to safe
// defaults by Normalize, never fatal.
type Config struct {
	Query        string
	InputFile    string
	MaxScrolls   int
	Validation   string
	Policy       leads.Policy
	ResultsDir   string
	Format       string
	Dsn          string
	DedupCache   string
	Debug        bool
	EmailTimeout time.Duration
	Flush        int
	VerifyEmails bool
	VerifyHost   bool

	DisableTelemetry bool
	LogLevel         string
	LogJSON          bool

	RunMode int
}

// ParseConfig reads flags and environment into a Config. Value correction is
// deferred to Normalize so warnings go through the real logger.
func ParseConfig() *Config {
	cfg := Config{}

	if os.Getenv("PLAYWRIGHT_INSTALL_ONLY") == "1" {
		cfg.RunMode = RunModeInstallPlaywright

		return &cfg
	}

	var install bool

	flag.StringVar(&cfg.Query, "query", "", "search query (e.g. 'travel agent in Jakarta')")
	flag.StringVar(&cfg.InputFile, "input", "", "path to a file with queries, one per line")
	flag.IntVar(&cfg.MaxScrolls, "max-scrolls", defaultMaxScrolls, "maximum scroll depth of the results feed")
	flag.StringVar(&cfg.Validation, "validation", "MODERATE", "validation policy: STRICT, MODERATE, LENIENT or NONE")
	flag.StringVar(&cfg.ResultsDir, "results-dir", defaultResultsDir, "directory for result files")
	flag.StringVar(&cfg.Format, "format", "csv", "result file format: csv or xlsx")
	flag.StringVar(&cfg.Dsn, "dsn", "", "optional postgres connection string for an additional database sink")
	flag.StringVar(&cfg.DedupCache, "dedup-cache", "", "path to a sqlite cache of already scraped places (empty disables)")
	flag.BoolVar(&cfg.Debug, "debug", false, "open a visible browser window")
	flag.DurationVar(&cfg.EmailTimeout, "email-timeout", emailfinder.DefaultTimeout, "page-load budget per third-party website")
	flag.IntVar(&cfg.Flush, "flush-interval", sink.DefaultFlushInterval, "flush sinks every N accepted rows")
	flag.BoolVar(&cfg.VerifyEmails, "verify-emails", false, "drop discovered emails that fail local verification")
	flag.BoolVar(&cfg.VerifyHost, "verify-mx", false, "also check the email domain's MX records (implies -verify-emails)")
	flag.BoolVar(&cfg.DisableTelemetry, "disable-telemetry", false, "disable anonymous usage telemetry")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	flag.BoolVar(&cfg.LogJSON, "log-json", false, "log in JSON instead of console format")
	flag.BoolVar(&install, "install", false, "install the playwright browser runtime and exit")

	flag.Parse()

	if install {
		cfg.RunMode = RunModeInstallPlaywright
	} else {
		cfg.RunMode = RunModeScrape
	}

	return &cfg
}

// Normalize corrects invalid configuration to safe defaults, logging a
// warning per correction. Only a missing query is a hard error.
func (cfg *Config) Normalize(log *zap.SugaredLogger) error {
	if cfg.RunMode == RunModeInstallPlaywright {
		return nil
	}

	if strings.TrimSpace(cfg.Query) == "" && strings.TrimSpace(cfg.InputFile) == "" {
		return ErrNoQuery
	}

	policy, known := leads.ParsePolicy(cfg.Validation)
	if !known {
		log.Warnw("unknown validation policy, falling back", "given", cfg.Validation, "using", policy.String())
	}

	cfg.Policy = policy
	cfg.Validation = policy.String()

	if cfg.MaxScrolls < 1 {
		log.Warnw("max-scrolls must be at least 1, using default", "given", cfg.MaxScrolls, "using", defaultMaxScrolls)

		cfg.MaxScrolls = defaultMaxScrolls
	}

	if cfg.Flush < 1 {
		log.Warnw("flush-interval must be at least 1, using default", "given", cfg.Flush, "using", sink.DefaultFlushInterval)

		cfg.Flush = sink.DefaultFlushInterval
	}

	if cfg.EmailTimeout <= 0 {
		log.Warnw("email-timeout must be positive, using default", "given", cfg.EmailTimeout, "using", emailfinder.DefaultTimeout)

		cfg.EmailTimeout = emailfinder.DefaultTimeout
	}

	switch cfg.Format {
	case "csv", "xlsx":
	default:
		log.Warnw("unknown result format, using csv", "given", cfg.Format)

		cfg.Format = "csv"
	}

	if cfg.VerifyHost {
		cfg.VerifyEmails = true
	}

	return nil
}

// InitLogger builds the process-wide zap logger from the config.
func InitLogger(cfg *Config) (*zap.SugaredLogger, error) {
	var zapCfg zap.Config

	if cfg.LogJSON {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)

	return logger.Sugar(), nil
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

// Telemetry returns the process-wide telemetry sink: PostHog when a key is
// configured, a no-op otherwise. DISABLE_TELEMETRY=1 always wins.
func Telemetry(cfg *Config) tlmt.Telemetry {
	telemetryOnce.Do(func() {
		if cfg.DisableTelemetry || os.Getenv("DISABLE_TELEMETRY") == "1" {
			telemetry = gonoop.New()

			return
		}

		apiKey := os.Getenv("LEADHARVEST_POSTHOG_KEY")
		if apiKey == "" {
			telemetry = gonoop.New()

			return
		}

		val, err := goposthog.New(apiKey, "https://eu.i.posthog.com")
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = rw
		} else {
			currentLine += string(r)
			currentWidth += rw
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrapped []string
	for _, message := range messages {
		wrapped = append(wrapped, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrapped {
		padding := contentWidth - runewidth.StringWidth(line)
		if padding < 0 {
			padding = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", padding)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

// Banner prints the startup banner to stderr.
func Banner() {
	messages := []string{
		"LeadHarvest - Google Maps Lead Scraper",
		"Powered by Kremlit Dev Team",
		fmt.Sprintf("v%s (%s)", Version, BuildDate),
	}

	fmt.Fprintln(os.Stderr, banner(messages, 0))
}
