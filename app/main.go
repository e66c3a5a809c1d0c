package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"cntech-bot/app/api"
	"cntech-bot/app/bot"
	"cntech-bot/app/cfg"
	"cntech-bot/app/feed"
	"cntech-bot/app/generator"
	"cntech-bot/app/llm"
	"cntech-bot/app/pipeline"
	"cntech-bot/app/publisher"
	"cntech-bot/app/seenset"
	"cntech-bot/app/sources"
	"cntech-bot/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was requested
		return
	}

	logLevel := slog.LevelInfo
	if c.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting cntech-bot", "version", c.Version, "provider", c.LLMProvider)

	list, err := sources.NewLoader(c.SourcesFile).Load()
	if err != nil {
		slog.Error("Failed to load sources", "file", c.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed sources", "count", len(list.Sources))

	seen := seenset.Load(filepath.Join(c.DataDir, "seen_articles.json"))
	slog.Info("Loaded seen articles", "count", seen.Len())

	llmClient, err := llm.New(c)
	if err != nil {
		slog.Error("Failed to initialize generation backend", "provider", c.LLMProvider, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: time.Duration(c.FetchTimeout) * time.Second}
	collector := feed.NewCollector(list, httpClient, feed.NewParser(), c.UserAgent,
		time.Duration(c.FetchTimeout)*time.Second, time.Duration(c.RecencyWindow)*time.Hour)

	gen := generator.New(llmClient, c.IdealPostLimit, c.CaptionLength)

	botAPI, err := tgbotapi.NewBotAPI(c.BotToken)
	if err != nil {
		slog.Error("Failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to Telegram", "username", botAPI.Self.UserName)

	pub := publisher.New(botAPI, c.ChannelID, c.AdminIDs, c.IdealPostLimit)

	stats := pipeline.NewStats()
	var pipe *pipeline.Pipeline
	if c.ExtractContent {
		extractor := feed.NewContentExtractor(httpClient, c.UserAgent, time.Duration(c.FetchTimeout)*time.Second)
		pipe = pipeline.New(collector, extractor, gen, pub, seen, stats)
	} else {
		pipe = pipeline.New(collector, nil, gen, pub, seen, stats)
	}

	scheduler, err := tasks.NewScheduler(pipe)
	if err != nil {
		slog.Error("Failed to initialize scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	commandBot := bot.New(botAPI, pipe, gen, pub, bot.Options{
		AdminIDs:        c.AdminIDs,
		PolishVacancies: c.PolishVacancies,
		PolishAds:       c.PolishAds,
		DigestCount:     c.MaxArticlesPerDay,
		SourceCount:     len(list.Sources),
		SeenLen:         seen.Len,
		Version:         c.Version,
	})
	go commandBot.Run(ctx)

	handler := api.NewHandler(stats, seen.Len, len(list.Sources), c.Version)
	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP status server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("cntech-bot started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
