package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"NewsReel/internal/app"
	"NewsReel/internal/config"
	"NewsReel/internal/domain"
	"NewsReel/internal/logging"
)

func main() {
	// .env is local-dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := run(context.Background(), application, os.Args[1:]); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "--list":
		articles, err := application.ListArticles(ctx)
		if err != nil {
			return err
		}
		printArticles(articles)
		return nil

	case "--generate":
		index := intArg(args, 1, 0)
		run, err := application.Generate(ctx, index)
		if err != nil {
			return err
		}
		printRun(run)
		return nil

	case "--batch":
		count := intArg(args, 1, 3)
		report := application.Batch(ctx, count)
		printReport(report)
		return nil

	case "--runs":
		limit := intArg(args, 1, 10)
		runs, err := application.RecentRuns(ctx, limit)
		if err != nil {
			return err
		}
		printHistory(runs)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string, pos, fallback int) int {
	if len(args) <= pos {
		return fallback
	}
	value, err := strconv.Atoi(args[pos])
	if err != nil {
		return fallback
	}
	return value
}

func printUsage() {
	fmt.Println("NewsReel - news to video pipeline")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsreel --list              list trending articles")
	fmt.Println("  newsreel --generate [index]  generate one video by article index")
	fmt.Println("  newsreel --batch [count]     generate videos for the first N articles")
	fmt.Println("  newsreel --runs [limit]      show recorded run history")
}

func printArticles(articles []domain.Article) {
	fmt.Printf("Found %d trending articles:\n\n", len(articles))
	for i, article := range articles {
		fmt.Printf("[%d] %s\n", i, article.Title)
		fmt.Printf("    Source: %s\n", article.SourceName)
		if article.URL != "" {
			fmt.Printf("    URL: %s\n", article.URL)
		}
		if article.Description != "" {
			fmt.Printf("    %s\n", truncate(article.Description, 100))
		}
		fmt.Println()
	}
}

func printRun(run domain.PipelineRun) {
	fmt.Printf("Run %s: %s\n", run.ID, run.State)
	fmt.Printf("  Article: %s (%s)\n", run.Article.Title, run.Article.SourceName)
	fmt.Printf("  Hook: %s\n", truncate(run.Script.Hook, 80))
	fmt.Printf("  Segments: %d\n", len(run.Script.Segments))
	if run.Degraded {
		fmt.Println("  Note: fallback script was used")
	}
	fmt.Printf("  Script: %s\n", run.ScriptPath)
	fmt.Printf("  Video: %s\n", run.VideoPath)
}

func printReport(report domain.BatchReport) {
	fmt.Printf("Batch finished: %d succeeded, %d failed\n\n", report.Succeeded, report.Failed)
	for i, run := range report.Runs {
		status := string(run.State)
		if run.State == domain.StateFailed {
			status = fmt.Sprintf("failed at %s: %s", run.FailedStage, run.Err)
		}
		fmt.Printf("[%d] %s - %s\n", i+1, truncate(run.Article.Title, 60), status)
	}
}

func printHistory(runs []domain.PipelineRun) {
	if len(runs) == 0 {
		fmt.Println("No recorded runs (is a database configured?)")
		return
	}
	for _, run := range runs {
		fmt.Printf("%s  %-8s  %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"), run.State, truncate(run.Article.Title, 60))
	}
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
