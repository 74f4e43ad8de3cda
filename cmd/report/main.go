package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"spellquiz/internal/config"
	"spellquiz/internal/database"
	"spellquiz/internal/repository"
	"spellquiz/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	emailCmd := flag.NewFlagSet("email", flag.ExitOnError)

	// Export flags
	exportType := exportCmd.String("type", "comprehensive", "Export type: word-difficulty, student-progress, class-report, teaching-focus, comprehensive")
	exportFormat := exportCmd.String("format", "csv", "Output format: csv or json")
	exportOutput := exportCmd.String("output", "", "Output file path (default: <export name>.<format>)")
	exportFrom := exportCmd.String("from", "", "Only include sessions on or after this date (YYYY-MM-DD)")
	exportTo := exportCmd.String("to", "", "Only include sessions on or before this date (YYYY-MM-DD)")
	exportStudent := exportCmd.String("student", "", "Only include sessions whose student name contains this text")

	// Email flags
	emailTo := emailCmd.String("to", "", "Recipient address (default: REPORT_RECIPIENT from config)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sessionRepo := repository.NewSessionRepository(db)
	analyticsService := service.NewAnalyticsService(sessionRepo)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		filters, err := buildFilters(*exportFrom, *exportTo, *exportStudent)
		if err != nil {
			log.Fatalf("Invalid filters: %v", err)
		}
		handleExport(service.NewExportService(analyticsService), service.ExportType(*exportType), *exportFormat, *exportOutput, filters)

	case "email":
		emailCmd.Parse(os.Args[2:])
		recipient := *emailTo
		if recipient == "" {
			recipient = cfg.ReportRecipient
		}
		if recipient == "" {
			fmt.Println("Error: no recipient; pass -to or set REPORT_RECIPIENT")
			os.Exit(1)
		}
		handleEmail(cfg, analyticsService, recipient)

	default:
		printUsage()
		os.Exit(1)
	}
}

func buildFilters(from, to, student string) (service.SessionFilters, error) {
	var filters service.SessionFilters
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filters, fmt.Errorf("invalid -from date: %w", err)
		}
		filters.DateFrom = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filters, fmt.Errorf("invalid -to date: %w", err)
		}
		filters.DateTo = &t
	}
	filters.StudentName = student
	return filters, nil
}

func handleExport(exports *service.ExportService, exportType service.ExportType, format, outputPath string, filters service.SessionFilters) {
	table, err := exports.Export(exportType, filters)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("%s.%s", table.Name, format)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	switch format {
	case "csv":
		writer := csv.NewWriter(file)
		writer.Write(table.Headers)
		for _, row := range table.Rows {
			writer.Write(row)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}

	case "json":
		records := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			record := make(map[string]string, len(table.Headers))
			for i, header := range table.Headers {
				record[header] = row[i]
			}
			records = append(records, record)
		}
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			log.Fatalf("Failed to write JSON: %v", err)
		}

	default:
		log.Fatalf("Unsupported format: %s", format)
	}

	log.Printf("Export complete: %s (%d rows)", outputPath, len(table.Rows))
}

func handleEmail(cfg *config.Config, analyticsService *service.AnalyticsService, recipient string) {
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	report, err := analyticsService.ClassReport(service.SessionFilters{})
	if err != nil {
		log.Fatalf("Failed to build class report: %v", err)
	}
	if report == nil {
		log.Fatal("No quiz data available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := emailService.SendClassReport(ctx, recipient, report); err != nil {
		log.Fatalf("Failed to send report: %v", err)
	}
	log.Printf("Class report sent to %s", recipient)
}

func printUsage() {
	fmt.Println("Usage: report <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export    Write an analytics projection to a CSV or JSON file")
	fmt.Println("  email     Send the class report to a teacher via email")
	fmt.Println()
	fmt.Println("Run 'report <command> -h' for command flags.")
}
