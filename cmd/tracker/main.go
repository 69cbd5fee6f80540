// Command tracker follows one route from the terminal: it prints the arrival
// estimates for a stop and the position of the leading vehicle, refreshing
// until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"busradar.dev/internal/app"
	"busradar.dev/internal/appconf"
	"busradar.dev/internal/geo"
	"busradar.dev/internal/models"
	"busradar.dev/internal/tracking"
	"busradar.dev/internal/transit"
	"busradar.dev/internal/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, logger)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(1)
	}
}

type options struct {
	appconf.Flags
	route string
	stop  string
	lat   string
	lon   string
}

func parseOptions(args []string) (options, appconf.Config, error) {
	var opts options
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	opts.Register(fs)
	fs.StringVar(&opts.route, "route", "", "Route code to follow (required)")
	fs.StringVar(&opts.stop, "stop", "", "Stop code to watch; overrides -lat/-lon")
	fs.StringVar(&opts.lat, "lat", "", "Your latitude, to pick the nearest stop on the route")
	fs.StringVar(&opts.lon, "lon", "", "Your longitude, to pick the nearest stop on the route")

	cfg, err := opts.Parse(fs, args, os.LookupEnv)
	if err != nil {
		return options{}, appconf.Config{}, err
	}

	if err := utils.ValidateID(opts.route); err != nil {
		return options{}, appconf.Config{}, fmt.Errorf("-route: %w", err)
	}
	if opts.stop != "" {
		if err := utils.ValidateID(opts.stop); err != nil {
			return options{}, appconf.Config{}, fmt.Errorf("-stop: %w", err)
		}
	} else if opts.lat == "" && opts.lon == "" {
		return options{}, appconf.Config{}, errors.New("either -stop or -lat/-lon is required")
	}
	return opts, cfg, nil
}

// rider returns the position given with -lat/-lon, or nil when -stop is used.
func (o options) rider() (*models.LatLng, error) {
	if o.stop != "" {
		return nil, nil
	}
	lat, lon, fieldErrors := utils.ParseLocationParams(o.lat, o.lon)
	if len(fieldErrors) > 0 {
		names := make([]string, 0, len(fieldErrors))
		for name := range fieldErrors {
			names = append(names, name)
		}
		slices.Sort(names)

		problems := make([]string, 0, len(names))
		for _, name := range names {
			problems = append(problems, "-"+name+" "+strings.Join(fieldErrors[name], ", "))
		}
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return &models.LatLng{Lat: lat, Lng: lon}, nil
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	if err := appconf.LoadDotEnv(".env"); err != nil {
		return err
	}

	opts, cfg, err := parseOptions(args)
	if err != nil {
		return err
	}
	rider, err := opts.rider()
	if err != nil {
		return err
	}

	application := app.New(cfg, logger, app.NewUpstreamFetcher(cfg, logger))
	return track(ctx, application, opts.route, opts.stop, rider, out)
}

// track resolves the selection and polls it until ctx is done.
func track(ctx context.Context, application *app.Application, routeCode, stopCode string, rider *models.LatLng, out io.Writer) error {
	sel, err := resolveSelection(ctx, application.Transit, routeCode, stopCode, rider, out)
	if err != nil {
		return err
	}

	controller := tracking.NewController(
		application.Transit.Client,
		newTextRenderer(out),
		app.TrackingConfig(application.Config),
		application.Logger,
	)
	controller.Start(sel)
	<-ctx.Done()
	controller.Stop()

	fmt.Fprintln(out, "stopped")
	return nil
}

// resolveSelection loads what a tracking session needs up front: the stop to
// watch and the polyline to snap vehicles onto.
func resolveSelection(ctx context.Context, services *transit.Services, routeCode, stopCode string, rider *models.LatLng, out io.Writer) (tracking.Selection, error) {
	stops, err := services.Stops.Stops(ctx, routeCode)
	if err != nil && stopCode == "" {
		return tracking.Selection{}, err
	}

	if stopCode == "" {
		stop, distance, found := geo.NearestStop(*rider, stops)
		if !found {
			return tracking.Selection{}, fmt.Errorf("no stop on route %s has a position", routeCode)
		}
		stopCode = stop.Code
		fmt.Fprintf(out, "nearest stop: %s %s, %.0f m %s\n",
			stop.Code, stop.Description, distance, geo.CompassDirection(*rider, *stop.Position))
	}

	geometry := services.Geometry.Geometry(ctx, routeCode, transit.StopsFallback(stops))
	fmt.Fprintf(out, "route %s: %d stops, geometry from %s (%d points)\n",
		routeCode, len(stops), geometry.Source, len(geometry.Points))

	return tracking.Selection{
		RouteCode: routeCode,
		StopCode:  stopCode,
		Geometry:  geometry.Points,
	}, nil
}
