// Command liquifier reconciles settled invoices over a date window and plans
// the payout across the node's channels.
//
// Usage:
//
//	liquifier [report] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-format text|json]
//	liquifier import [-invoices FILE] [-channels FILE]
//	liquifier hash-password < password.txt
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mmynk/liquifier/internal/auth"
	"github.com/mmynk/liquifier/internal/calculator"
	"github.com/mmynk/liquifier/internal/config"
	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
	"github.com/mmynk/liquifier/internal/node/lncli"
	"github.com/mmynk/liquifier/internal/render"
	"github.com/mmynk/liquifier/internal/service"
	"github.com/mmynk/liquifier/internal/source"
	"github.com/mmynk/liquifier/internal/storage/sqlite"
	"github.com/mmynk/liquifier/internal/window"
	"github.com/mmynk/liquifier/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "liquifier:", describe(err))
		os.Exit(1)
	}
}

// run executes one command. Reports go to stdout; prompts go to stderr so
// that stdout stays a clean document.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	command := "report"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "report":
		return runReport(ctx, args, stdin, stdout, stderr)
	case "import":
		return runImport(ctx, args)
	case "hash-password":
		return runHashPassword(stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q (want report, import or hash-password)", command)
	}
}

func runReport(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	start := fs.String("start", "", "first day of the window, YYYY-MM-DD")
	end := fs.String("end", "", "last day of the window, YYYY-MM-DD")
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	closeLog, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closeLog()

	w, err := reportWindow(*start, *end, cfg, stdin, stderr)
	if err != nil {
		return err
	}

	querier, closeSource, err := source.Open(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := service.NewReportService(querier, service.ReportConfig{
		MaximumPayment: cfg.MaximumPaymentAmount,
		Location:       cfg.Location,
	}, nil)

	report, err := svc.Build(ctx, w)
	if err != nil {
		return err
	}

	if *format == "json" {
		return render.JSON(stdout, report)
	}
	return render.Text(stdout, report, cfg.Location)
}

// reportWindow uses the flags when both dates are given and prompts otherwise.
func reportWindow(start, end string, cfg *config.Config, stdin io.Reader, prompts io.Writer) (models.DateWindow, error) {
	if start != "" && end != "" {
		return window.New(start, end, cfg.Location)
	}
	if start != "" || end != "" {
		return models.DateWindow{}, errors.New("-start and -end must be given together")
	}
	return window.NewPrompter(stdin, prompts).Window(cfg.Location)
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	invoicesFile := fs.String("invoices", "", "lncli listinvoices JSON dump")
	channelsFile := fs.String("channels", "", "lncli listchannels JSON dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *invoicesFile == "" && *channelsFile == "" {
		return errors.New("nothing to import: pass -invoices and/or -channels")
	}

	dbPath, err := config.SnapshotDBPath()
	if err != nil {
		return err
	}
	closeLog, err := logging.Setup(logging.Options{Level: os.Getenv("LOG_LEVEL"), File: os.Getenv("LOG_FILE")})
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *invoicesFile != "" {
		data, err := os.ReadFile(*invoicesFile)
		if err != nil {
			return fmt.Errorf("failed to read invoices dump: %w", err)
		}
		batch, err := lncli.DecodeInvoices(data)
		if err != nil {
			return err
		}
		logWarnings(batch.Warnings)
		n, err := store.ImportInvoices(ctx, batch.Invoices)
		if err != nil {
			return err
		}
		slog.Info("Invoices imported", "file", *invoicesFile, "decoded", len(batch.Invoices), "stored", n)
	}

	if *channelsFile != "" {
		data, err := os.ReadFile(*channelsFile)
		if err != nil {
			return fmt.Errorf("failed to read channels dump: %w", err)
		}
		batch, err := lncli.DecodeChannels(data)
		if err != nil {
			return err
		}
		logWarnings(batch.Warnings)
		n, err := store.ImportChannels(ctx, batch.Channels)
		if err != nil {
			return err
		}
		slog.Info("Channels imported", "file", *channelsFile, "stored", n)
	}
	return nil
}

func runHashPassword(stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		return errors.New("no password on stdin")
	}

	hash, err := auth.HashPassword(strings.TrimRight(scanner.Text(), "\r"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}

func logWarnings(warnings []models.ShapeWarning) {
	for _, sw := range warnings {
		slog.Warn("Node field replaced by default",
			"record", sw.Record,
			"index", sw.Index,
			"field", sw.Field,
			"reason", sw.Reason,
		)
	}
}

// describe prefixes err with the dependency that failed.
func describe(err error) string {
	var qe *node.QueryError
	switch {
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, calculator.ErrInvalidMaximumPayment):
		return "configuration: " + err.Error()
	case errors.As(err, &qe):
		return "node: " + err.Error()
	case errors.Is(err, window.ErrInvalidDate), errors.Is(err, window.ErrReversedWindow):
		return "date window: " + err.Error()
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "date window: input ended before a valid date was entered"
	default:
		return err.Error()
	}
}
