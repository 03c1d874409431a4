package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/api"
	"staffdash/internal/auth"
	"staffdash/internal/config"
	"staffdash/internal/domain"
	"staffdash/internal/eventbus"
	"staffdash/internal/export"
	"staffdash/internal/listing"
	"staffdash/internal/ui"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  staffdash [flags]                            open the dashboard
  staffdash [flags] export <entity> [-search term] [-status value] [-out file]
                                               export every page of a list to XLSX
  staffdash [flags] reset-password <userId> <token>
                                               choose a new password from a reset link

Entities: employees, projects, invoices

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var configPath, baseURL string
	flag.StringVar(&configPath, "config", "", "Path to the config file (default "+config.DefaultPath()+")")
	flag.StringVar(&baseURL, "url", "", "Base URL of the API, overrides the config file")
	flag.Usage = usage
	flag.Parse()

	// .env first so the config overlay sees it
	config.LoadEnv()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(bus, configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnv(cfg)
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	// Set up logging
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.Printf("Loaded config from %s, API at %s", configSvc.Path(), cfg.API.BaseURL)

	session := auth.NewSession()
	if cfg.Auth.Token != "" {
		if err := session.Restore(cfg.Auth.Token); err != nil {
			log.Printf("Saved session not restored: %v", err)
		}
	}

	client := api.New(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout.Duration,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	}, session)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var opts ui.Options
	switch flag.Arg(0) {
	case "export":
		if err := runExport(ctx, cfg, client, session, flag.Args()[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		return
	case "reset-password":
		if flag.NArg() != 3 {
			usage()
			os.Exit(2)
		}
		opts.ResetUserID = flag.Arg(1)
		opts.ResetToken = flag.Arg(2)
	case "":
	default:
		usage()
		os.Exit(2)
	}

	// Subscribe to config changes to save automatically
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.ConfigChangedEvent)
		if !ok {
			return
		}
		if event.PageSize > 0 {
			cfg.List.PageSize = event.PageSize
		}
		cfg.Auth.Token = event.Token
		if err := configSvc.Save(cfg); err != nil {
			log.Printf("Failed to save config: %v", err)
		} else {
			log.Printf("Config saved to %s", configSvc.Path())
		}
	})

	bus.Subscribe(eventbus.EventSessionStarted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SessionStartedEvent); ok {
			log.Printf("Signed in as %s (%s)", event.User.Email, event.User.Role)
		}
	})
	bus.Subscribe(eventbus.EventSessionEnded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SessionEndedEvent); ok {
			log.Printf("Session ended: %s", event.Reason)
		}
	})
	bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.PageLoadedEvent); ok {
			log.Printf("Loaded %s page %s (%d total)", event.Entity, event.Key, event.Total)
		}
	})

	// Create UI model
	log.Printf("Creating UI model...")
	uiModel := ui.NewModel(bus, cfg, client, session, opts)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Record changes are forwarded so related lists can refresh
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventRecordSaved, forward)
	bus.Subscribe(eventbus.EventRecordDeleted, forward)

	// Run the UI
	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// runExport walks every page of a list through the same data source the
// dashboard uses and writes the records to one workbook
func runExport(ctx context.Context, cfg *config.Config, client *api.Client, session *auth.Session, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	search := fs.String("search", "", "Search term")
	status := fs.String("status", "", "Status filter, as sent to the API")
	out := fs.String("out", "", "Output file (default <entity>-<timestamp>.xlsx in ui.export_dir)")
	if len(args) == 0 {
		return fmt.Errorf("missing entity, one of employees, projects, invoices")
	}
	entity := domain.Entity(args[0])
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if !session.HasToken() {
		return fmt.Errorf("not signed in: open the dashboard and sign in first, or set %s", config.EnvToken)
	}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.UI.ExportDir, export.FileName(entity, "xlsx", time.Now()))
	}
	q := listing.Query{
		Search:        *search,
		Status:        *status,
		SortDirection: listing.Asc,
		PageSize:      50,
	}

	switch entity {
	case domain.EntityEmployees, domain.EntityProjects, domain.EntityInvoices:
	default:
		return fmt.Errorf("unknown entity %q", entity)
	}

	f, err := export.Create(path)
	if err != nil {
		return err
	}

	var n int
	switch entity {
	case domain.EntityEmployees:
		n, err = exportAll(ctx, f, listing.NewSource[domain.Employee](client.Employees(), session, nil), q, entity, export.EmployeeColumns)
	case domain.EntityProjects:
		n, err = exportAll(ctx, f, listing.NewSource[domain.Project](client.Projects(), session, nil), q, entity, export.ProjectColumns)
	case domain.EntityInvoices:
		n, err = exportAll(ctx, f, listing.NewSource[domain.Invoice](client.Invoices(), session, nil), q, entity, export.InvoiceColumns)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	log.Printf("Exported %d %s to %s", n, entity, path)
	fmt.Printf("Exported %d %s to %s\n", n, entity, path)
	return nil
}

func exportAll[T any](ctx context.Context, w io.Writer, src *listing.Source[T], q listing.Query, entity domain.Entity, cols []export.Column[T]) (int, error) {
	rows, err := export.CollectAll(ctx, src, q)
	if err != nil {
		return 0, err
	}
	if err := export.WriteXLSX(w, export.SheetName(entity), cols, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
