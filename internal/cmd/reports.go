package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	adapterstorage "bugbot/internal/adapters/storage"
	"bugbot/internal/domain"
)

// ReportsCmd groups the report inspection subcommands
type ReportsCmd struct {
	List ReportsListCmd `cmd:"" help:"List persisted bug reports" default:"1"`
	View ReportsViewCmd `cmd:"" help:"Show one bug report in full"`
}

// ReportsListCmd lists recent reports in a table
type ReportsListCmd struct {
	Limit int `help:"Maximum number of reports to show" default:"20"`
}

// Run lists persisted reports, newest first
func (r *ReportsListCmd) Run(cli *CLI) error {
	repo, err := adapterstorage.NewSQLiteRepository(cli.Settings().GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	reports, err := repo.List(context.Background(), r.Limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(reports) == 0 {
		fmt.Println("No bug reports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILED\tREPORTER\tPLATFORM\tBRANCH\tTITLE")
	for _, report := range reports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			report.ID,
			report.CreatedAt.Local().Format("2006-01-02 15:04"),
			report.Reporter,
			report.Platform,
			report.Branch,
			truncate(report.Title, 60))
	}
	return w.Flush()
}

// ReportsViewCmd shows a single report with all fields and attachments
type ReportsViewCmd struct {
	ID int64 `arg:"" help:"Report ID to show"`
}

// Run prints one report in full
func (r *ReportsViewCmd) Run(cli *CLI) error {
	repo, err := adapterstorage.NewSQLiteRepository(cli.Settings().GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	report, err := repo.Get(context.Background(), r.ID)
	if err != nil {
		return fmt.Errorf("failed to load report %d: %w", r.ID, err)
	}

	printReport(report)
	return nil
}

func printReport(report *domain.Report) {
	fmt.Printf("Bug report #%d\n", report.ID)
	fmt.Printf("  Filed:       %s\n", report.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Reporter:    %s\n", report.Reporter)
	fmt.Printf("  Platform:    %s %s\n", report.Platform, report.PlatformVersion)
	fmt.Printf("  Branch:      %s\n", report.Branch)
	fmt.Printf("  App version: %s (build %s)\n", report.AppVersion, report.AppBuild)
	fmt.Printf("  Device:      %s\n", report.DeviceInfo)
	fmt.Printf("  Title:       %s\n", report.Title)
	fmt.Printf("  Actual:      %s\n", report.Actual)
	fmt.Printf("  Steps:       %s\n", report.Steps)
	fmt.Printf("  Expected:    %s\n", report.Expected)
	if report.Additional != "" {
		fmt.Printf("  Additional:  %s\n", report.Additional)
	}
	if len(report.Attachments) > 0 {
		fmt.Println("  Attachments:")
		for _, attachment := range report.Attachments {
			fmt.Printf("    %s\n", attachment.URL)
		}
	}
}

// truncate shortens a string to max characters, counting runes so a
// multibyte character is never split
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
