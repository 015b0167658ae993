// Command legaldoc is a terminal client for the document simplification service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xprabhudayal/genai/config"
	"github.com/xprabhudayal/genai/internal/agent"
	"github.com/xprabhudayal/genai/internal/bootstrap"
	"github.com/xprabhudayal/genai/internal/presenter"
	"github.com/xprabhudayal/genai/internal/presenter/archive"
	"github.com/xprabhudayal/genai/internal/presenter/terminal"
	"github.com/xprabhudayal/genai/internal/service/orchestrator"
	"github.com/xprabhudayal/genai/internal/terms"
	"github.com/xprabhudayal/genai/internal/utils/validator"
	"github.com/xprabhudayal/genai/pkg/logger"
	"github.com/xprabhudayal/genai/pkg/storage"
)

var (
	configPath  string
	serverURL   string
	logLevel    string
	archiveType string
	noColor     bool

	colorRed = color.New(color.FgRed, color.Bold)
)

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	validator *validator.DocumentValidator
	orch      *orchestrator.Orchestrator
	screen    *terminal.Presenter
	archive   *archive.Presenter
	store     storage.Storage
	factory   *agent.ProcessorFactory
	out       io.Writer
}

// reportedError marks a failure the terminal presenter has already shown.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var rerr reportedError
		if !errors.As(err, &rerr) {
			colorRed.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "legaldoc",
	Short: "Simplify legal documents from the terminal",
	Long: `legaldoc sends legal documents and text to the document simplification
service and prints plain-language results.

Term extraction runs locally; every other command calls the service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv(config.EnvConfigPath), "path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&archiveType, "archive", "", "archive results to: none, s3, minio")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(uploadCmd, simplifyCmd, summarizeCmd, termsCmd, explainCmd, healthCmd, archiveCmd)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Service.BaseURL = serverURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if archiveType != "" {
		cfg.Archive.Type = archiveType
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := bootstrap.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	var opts []terminal.Option
	if noColor {
		opts = append(opts, terminal.WithColor(false))
	}
	a := &app{
		cfg:       cfg,
		log:       log,
		validator: bootstrap.NewValidator(&cfg.Upload, log),
		screen:    terminal.New(out, opts...),
		factory:   agent.NewProcessorFactory(log),
		out:       out,
	}

	a.store, err = bootstrap.NewArchive(cmd.Context(), &cfg.Archive, log)
	if err != nil {
		return nil, err
	}
	surface := presenter.NewMulti(a.screen)
	if a.store != nil {
		a.archive = archive.New(a.store, cfg.Archive.Prefix, log)
		surface = presenter.NewMulti(a.screen, a.archive)
	}

	a.orch = orchestrator.New(bootstrap.NewClient(&cfg.Service, log), a.validator, terms.NewExtractor(), surface, log)
	return a, nil
}

func (a *app) close() {
	_ = a.factory.Close()
	_ = a.log.Sync()
}

// printArchived reports where the last result went, when archiving is on.
func (a *app) printArchived() {
	if a.archive == nil {
		return
	}
	if key := a.archive.LastKey(); key != "" {
		fmt.Fprintf(a.out, "Archived as %s\n", key)
	}
}

// inputText resolves the text for a command from --file or its arguments.
func (a *app) inputText(ctx context.Context, file string, args []string) (string, error) {
	if file == "" {
		return strings.Join(args, " "), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	info := a.validator.Inspect(file, data)
	text, err := a.factory.ExtractText(ctx, info.MimeType, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", info.Filename, err)
	}
	a.log.Info("Extracted local text",
		logger.String("file", info.Filename),
		logger.String("mimeType", info.MimeType),
		logger.String("hash", info.Hash),
	)
	return text, nil
}
