package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chatlens/chatlens/pkg/analysis"
	"github.com/chatlens/chatlens/pkg/recap"
)

func main() {
	// Define command-line flags
	var (
		inputPath    = flag.String("input", "", "Path to a WhatsApp chat export .txt file (required)")
		windowDays   = flag.Int("window", 7, "Activity window in days for the active member count")
		timezone     = flag.String("timezone", "", "IANA timezone of the export timestamps (default: local)")
		enrichTitles = flag.Bool("enrich-titles", false, "Fetch page titles for shared links")
		recapModel   = flag.String("recap-model", "", "Ollama model for recap generation (disabled when empty)")
		ollamaURL    = flag.String("ollama-url", "http://localhost:11434", "Ollama base URL")
		topMembers   = flag.Int("top", 10, "Number of top members to print")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help || *inputPath == "" {
		printUsage()
		os.Exit(0)
	}

	loc := time.Local
	if *timezone != "" {
		var err error
		loc, err = time.LoadLocation(*timezone)
		if err != nil {
			log.Fatalf("Invalid timezone: %v", err)
		}
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read export file: %v", err)
	}

	service := analysis.NewService(analysis.ServiceConfig{
		ActivityWindowDays: *windowDays,
		EnrichTitles:       *enrichTitles,
		Location:           loc,
	})

	ctx := context.Background()
	if *recapModel != "" {
		client := recap.NewClient(*ollamaURL, *recapModel)
		if err := client.Ping(ctx); err != nil {
			log.Fatalf("Ollama not reachable at %s: %v", *ollamaURL, err)
		}
		service.SetRecapGenerator(client)
	}

	startTime := time.Now()
	report, err := service.Analyze(ctx, string(data))
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	// Print results
	duration := time.Since(startTime)
	fmt.Println("\n=== Analysis Complete ===")
	fmt.Printf("Duration: %s\n", duration.Round(time.Millisecond))
	fmt.Printf("Total messages: %d\n", report.MessageCount)
	fmt.Printf("Members: %d\n", len(report.Members))
	fmt.Printf("Resources shared: %d\n", len(report.Resources))
	fmt.Printf("Active members (last %d days): %d\n", *windowDays, report.ActiveMembers)

	if len(report.DailyStats) > 0 {
		first := report.DailyStats[0].Date
		last := report.DailyStats[len(report.DailyStats)-1].Date
		fmt.Printf("Date range: %s to %s (%d days)\n", first, last, len(report.DailyStats))
	}

	fmt.Println("\nTop members:")
	for i, member := range report.Members {
		if i >= *topMembers {
			fmt.Printf("... and %d more members\n", len(report.Members)-*topMembers)
			break
		}
		fmt.Printf("  %2d. %s: %d messages (%.1f/day, most active at %02d:00)\n",
			i+1, member.Name, member.TotalMessages, member.MessageFrequency, member.MostActiveHour)
	}

	if len(report.Resources) > 0 {
		fmt.Println("\nRecent resources:")
		for i, res := range report.Resources {
			if i >= 10 {
				fmt.Printf("... and %d more resources\n", len(report.Resources)-10)
				break
			}
			fmt.Printf("  - [%s] %s (shared by %s)\n", res.Category, res.URL, res.SharedBy)
		}
	}

	if report.Recap != "" {
		fmt.Println("\nRecap:")
		fmt.Println(report.Recap)
	}
}

func printUsage() {
	fmt.Println("ChatLens Export Analyzer")
	fmt.Println("\nUsage:")
	fmt.Println("  analyze -input <path> [options]")
	fmt.Println("\nRequired:")
	fmt.Println("  -input string")
	fmt.Println("        Path to a WhatsApp chat export .txt file")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Analyze an export")
	fmt.Println("  analyze -input _chat.txt")
	fmt.Println("\n  # Analyze with title enrichment and a recap")
	fmt.Println("  analyze -input _chat.txt -enrich-titles -recap-model llama3.2")
}
