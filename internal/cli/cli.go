package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/unisport/internal/calendar"
	"github.com/pfrederiksen/unisport/internal/catalog"
	"github.com/pfrederiksen/unisport/internal/config"
	"github.com/pfrederiksen/unisport/internal/course"
	"github.com/pfrederiksen/unisport/internal/filter"
	"github.com/pfrederiksen/unisport/internal/logger"
	"github.com/pfrederiksen/unisport/internal/server"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// bookableAny disables the booking status criterion
const bookableAny = "any"

// rootOptions holds the persistent flags
type rootOptions struct {
	dataDir string
	format  string
	envFile string
	verbose bool

	cfg *config.Config
	log *logger.Logger
}

// filterFlags holds the flags shared by listing commands
type filterFlags struct {
	search   string
	day      string
	start    string
	end      string
	when     string
	bookable []string
	sort     string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "unisport",
		Short: "Browse the Berlin university sports course catalog",
		Long: `A CLI tool to browse the university sports courses of the Berlin providers.
Course data is cached locally for a day; filters narrow the listing by
booking status, weekday, time window and a fuzzy search term.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory for the cached snapshot (overrides DATA_DIR)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newCoursesCmd(opts),
		newEventsCmd(opts),
		newLocationsCmd(opts),
		newCalendarCmd(opts),
		newCacheCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	o.format = string(format)

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	o.cfg = cfg

	level := cfg.LogLevel
	// Keep listings readable: only problems are logged unless asked for
	if cmd.Name() != "serve" && level != logger.LevelError {
		level = logger.LevelWarn
	}
	o.log = newLogger(cmd.ErrOrStderr(), level, o.verbose)
	logger.SetDefault(o.log)

	return nil
}

// loadCatalog builds the runtime and loads the catalog
func (o *rootOptions) loadCatalog(ctx context.Context) (*runtime, error) {
	rt, err := newRuntime(ctx, o.cfg, o.log)
	if err != nil {
		return nil, err
	}
	if err := rt.catalog.Load(ctx); err != nil {
		rt.close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return rt, nil
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags, sortHelp string) {
	cmd.Flags().StringVar(&f.search, "search", "", "Fuzzy search term (3+ characters)")
	cmd.Flags().StringVar(&f.day, "day", course.AllDays, "Weekday: Mo, Di, Mi, Do, Fr, Sa, So or all")
	cmd.Flags().StringVar(&f.start, "start", "", "Earliest start time (HH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "Latest end time (HH:MM)")
	cmd.Flags().StringVar(&f.when, "when", "", `Day and time window, e.g. "Mo 18:00-20:00" (overrides --day/--start/--end)`)
	cmd.Flags().StringSliceVar(&f.bookable, "bookable", []string{string(course.Bookable)}, "Booking statuses: bookable, waitlist or any")
	cmd.Flags().StringVar(&f.sort, "sort", "", sortHelp)
}

// build converts the flags into a validated filter
func (f *filterFlags) build() (*filter.Filter, error) {
	flt := filter.NewFilter()
	flt.SearchTerm = f.search
	flt.Day = f.day
	flt.Start = f.start
	flt.End = f.end

	if f.when != "" {
		day, start, end, err := filter.ParseWindow(f.when)
		if err != nil {
			return nil, err
		}
		flt.Day, flt.Start, flt.End = day, start, end
	}

	if !slices.Contains(f.bookable, bookableAny) {
		for _, s := range f.bookable {
			if s = strings.TrimSpace(s); s != "" {
				flt.Bookable = append(flt.Bookable, course.BookingStatus(strings.ToLower(s)))
			}
		}
	}

	if err := flt.Validate(); err != nil {
		return nil, err
	}
	return flt, nil
}

func newCoursesCmd(opts *rootOptions) *cobra.Command {
	var flags filterFlags
	var page int

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses with at least one matching slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			order := SortOrder(flags.sort)
			if !order.validForCourses() {
				return fmt.Errorf("invalid sort order: %s (must be name, provider or price)", flags.sort)
			}
			if page < 1 {
				return fmt.Errorf("invalid page: %d (pages start at 1)", page)
			}
			flt, err := flags.build()
			if err != nil {
				return err
			}

			rt, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			cat := rt.catalog
			if err := cat.SetFilters(flt); err != nil {
				return err
			}

			courses := sortCourses(cat.FilteredCourses(), order)
			result := &CoursesResult{
				Filter:   flt.String(),
				Page:     page,
				PageSize: cat.PageSize(),
				Total:    len(courses),
				Courses:  catalog.Paginate(courses, page-1, cat.PageSize()),
			}
			return WriteCourses(cmd.OutOrStdout(), result, OutputFormat(opts.format), opts.verbose)
		},
	}

	addFilterFlags(cmd, &flags, "Sort order: name, provider or price (default: provider order or search rank)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")

	return cmd
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List matching course slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			order := SortOrder(flags.sort)
			if !order.validForEvents() {
				return fmt.Errorf("invalid sort order: %s (must be name, day or price)", flags.sort)
			}
			flt, err := flags.build()
			if err != nil {
				return err
			}

			rt, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.catalog.SetFilters(flt); err != nil {
				return err
			}

			events := sortEvents(rt.catalog.FilteredEvents(), order)
			result := &EventsResult{
				Filter: flt.String(),
				Total:  len(events),
				Events: newEventViews(events),
			}
			return WriteEvents(cmd.OutOrStdout(), result, OutputFormat(opts.format), opts.verbose)
		},
	}

	addFilterFlags(cmd, &flags, "Sort order: name, day or price (default: provider order or search rank)")

	return cmd
}

func newLocationsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List venues and the courses held there",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			cat := rt.catalog
			result := &LocationsResult{}
			for _, loc := range cat.Locations() {
				view := LocationView{Location: loc}
				for _, c := range cat.CoursesAtLocation(loc.URL) {
					view.Courses = append(view.Courses, c.Name)
				}
				result.Locations = append(result.Locations, view)
			}
			return WriteLocations(cmd.OutOrStdout(), result, OutputFormat(opts.format), opts.verbose)
		},
	}
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "calendar <course-id>",
		Short: "Export the weekly slots of a course as iCalendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			crs, err := rt.catalog.Course(args[0])
			if err != nil {
				return err
			}

			ics, err := calendar.GenerateICS(crs, time.Now())
			if err != nil {
				return fmt.Errorf("generating calendar: %w", err)
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(output, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Calendar written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cached provider snapshot",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the cached snapshot so the next load fetches fresh data",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.gateway.Invalidate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	})

	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, cfg, opts.log)
			if err != nil {
				return err
			}
			defer rt.close()

			// List endpoints answer 503 until this finishes
			loadInBackground(ctx, rt.catalog)

			router := server.NewRouter(rt.catalog, server.Config{
				IsProduction:   cfg.IsProduction,
				ProdOrigins:    cfg.ProdOrigins,
				ReloadInterval: cfg.ReloadInterval,
				Logger:         opts.log,
			})
			return server.Serve(ctx, cfg.HTTPAddr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")

	return cmd
}

// loadInBackground runs the startup load. A shutdown signal does not abort
// it, so an interrupted start never counts as a failed load.
func loadInBackground(ctx context.Context, cat *catalog.Catalog) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- cat.Load(context.WithoutCancel(ctx))
	}()
	return done
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
