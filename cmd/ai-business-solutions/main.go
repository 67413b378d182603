package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/config"
	"github.com/iwvelando/ai-business-solutions/internal/demo"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/internal/server"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"github.com/iwvelando/ai-business-solutions/pkg/output"
	"github.com/iwvelando/ai-business-solutions/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}
	if err := validation.ValidateLogLevel(level); err != nil {
		return nil, err
	}

	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// mergeLogging overlays the server config's logging section on the site's.
func mergeLogging(site, srv config.LoggingConfig) config.LoggingConfig {
	merged := site
	if srv.Level != "" {
		merged.Level = srv.Level
	}
	if srv.Format != "" {
		merged.Format = srv.Format
	}
	if srv.OutputFile != "" {
		merged.OutputFile = srv.OutputFile
	}
	return merged
}

// selectJitter picks the jitter source: none for a baseline run, then the
// CLI seed, then the configured seed. Zero means unseeded.
func selectJitter(baseline bool, flagSeed, configSeed uint64) forecast.JitterSource {
	if baseline {
		return forecast.FixedJitter(1)
	}
	if flagSeed != 0 {
		return forecast.NewRandomJitter(flagSeed)
	}
	return forecast.NewRandomJitter(configSeed)
}

// sweepInterval checks for expired sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// runForecast computes one forecast and writes it to w in the given format.
func runForecast(w io.Writer, generator *forecast.Generator, history []forecast.HistoricalPoint, params forecast.Parameters, outputFormat string) error {
	result, err := generator.Generate(history, params)
	if err != nil {
		return fmt.Errorf("failed to compute forecast: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		return output.PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, result)
	}
	return validation.ValidateOutputFormat(outputFormat)
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to site configuration file")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	address := flag.String("address", "", "listen address override")
	forecastMode := flag.Bool("forecast", false, "print a single forecast to stdout and exit")
	market := flag.String("market", "", "market condition: declining, stable, growing, booming")
	season := flag.String("season", "", "seasonality: low, normal, high, peak")
	growth := flag.String("growth", "", "growth rate in percent, between -20 and 50")
	seed := flag.Uint64("seed", 0, "jitter seed for reproducible output (0 is random)")
	baseline := flag.Bool("baseline", false, "disable jitter")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env\", \"error\": \"%v\"}\n", err)
	}

	conf, err := config.LoadConfigurationIfExists(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	serverConfig, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(mergeLogging(conf.Logging, serverConfig.Logging), *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	generator := forecast.NewGenerator(logger, selectJitter(*baseline, *seed, conf.Demo.Seed))

	if *forecastMode {
		outputFormat := conf.Output.Format
		if *outputFormatFlag != "" {
			outputFormat = *outputFormatFlag
		}
		if outputFormat == "" {
			outputFormat = constants.OutputFormatPretty
		}
		if err := validation.ValidateOutputFormat(outputFormat); err != nil {
			logger.Fatal(err.Error(),
				zap.String("op", "main"),
			)
		}

		params, err := forecast.ParseParameters(*market, *season, *growth)
		if err != nil {
			logger.Fatal("invalid forecast parameters",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}

		if err := runForecast(os.Stdout, generator, conf.History, params, outputFormat); err != nil {
			logger.Fatal("failed to write forecast",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	listenAddress := serverConfig.Address
	if *address != "" {
		listenAddress = *address
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := demo.NewRegistry(logger, generator, demo.Options{
		Delay:   conf.Demo.Delay,
		TTL:     conf.Demo.SessionTTL,
		History: conf.History,
	})
	go registry.Run(ctx, sweepInterval(conf.Demo.SessionTTL))

	handler := server.NewHandler(logger, registry, server.Options{
		Version:     version,
		MaxBodySize: serverConfig.BodySizeBytes(),
		Site:        conf.Site,
		History:     conf.History,
		Delay:       conf.Demo.Delay,
		Generator:   generator,
		Background:  ctx,
	})

	srv := &http.Server{
		Addr:              listenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", listenAddress),
			zap.String("version", version),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		logger.Info("shutting down server",
			zap.String("op", "main"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}
