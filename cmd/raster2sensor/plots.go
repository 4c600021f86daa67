package main

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/phenocover/raster2sensor/auth"
	sensorthings "github.com/phenocover/raster2sensor/client"
	"github.com/phenocover/raster2sensor/internal/config"
	"github.com/phenocover/raster2sensor/internal/logging"
	"github.com/phenocover/raster2sensor/internal/plots"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file (YAML or JSON) with sensorthingsapi_url and trial_id",
	}
	apiURLFlag = &cli.StringFlag{
		Name:  "sensorthingsapi-url",
		Usage: "SensorThings API root URL",
	}
	trialIDFlag = &cli.StringFlag{
		Name:  "trial-id",
		Usage: "Trial identifier",
	}
)

func newPlotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "plots",
		Usage: "Manage trial plots in the SensorThings API",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch plots GeoJSON for a trial",
				Flags: []cli.Flag{
					configFlag, apiURLFlag, trialIDFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the FeatureCollection to a file instead of stdout",
					},
				},
				Action: fetchPlotsAction,
			},
			{
				Name:  "create",
				Usage: "Create trial plots from a GeoJSON file",
				Flags: []cli.Flag{
					configFlag, apiURLFlag, trialIDFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "GeoJSON FeatureCollection describing the plots",
						Required: true,
					},
				},
				Action: createPlotsAction,
			},
			{
				Name:   "browse",
				Usage:  "Browse a trial's plots interactively",
				Flags:  []cli.Flag{configFlag, apiURLFlag, trialIDFlag},
				Action: browsePlotsAction,
			},
		},
	}
}

// plotsSetup resolves configuration, builds the logger and the plot
// service shared by every plots subcommand.
func plotsSetup(cmd *cli.Command) (*config.Config, *plots.Service, zerolog.Logger, error) {
	cfg, err := config.Resolve(
		cmd.String(configFlag.Name),
		cmd.String(apiURLFlag.Name),
		cmd.String(trialIDFlag.Name),
	)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	logger, err := loggerFromCommand(cmd, &cfg.Logging)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	client, err := newSensorThingsClient(cmd, cfg, logger)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}

	service := plots.NewService(client, logging.NewLogger(logger, "plots"))
	return cfg, service, logger, nil
}

func newSensorThingsClient(cmd *cli.Command, cfg *config.Config, logger zerolog.Logger) (*sensorthings.Client, error) {
	opts := []sensorthings.ClientOption{
		sensorthings.WithBaseURL(cfg.SensorThingsURL),
		sensorthings.WithTimeout(cfg.Timeout.Std()),
		sensorthings.WithMaxPages(cfg.MaxPages),
		sensorthings.WithLogger(logging.ForClient(logging.NewLogger(logger, "sensorthings"))),
	}
	if cmd.IsSet(timeoutFlag.Name) {
		opts = append(opts, sensorthings.WithTimeout(cmd.Duration(timeoutFlag.Name)))
	}
	if token := cmd.String(tokenFlag.Name); token != "" {
		opts = append(opts, sensorthings.WithTransport(&auth.BearerTokenTransport{Token: token}))
	}
	return sensorthings.New(opts...)
}

func fetchPlotsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, service, logger, err := plotsSetup(cmd)
	if err != nil {
		return err
	}

	fc, err := service.Fetch(ctx, cfg.TrialID)
	if err != nil {
		logger.Error().Err(err).Str("trial_id", cfg.TrialID).Msg("fetching plots failed")
		return err
	}

	if err := writeJSON(fc, cmd.String("output")); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Fetched %d plots for trial %s\n", len(fc.Features), cfg.TrialID)
	return nil
}

func createPlotsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, service, logger, err := plotsSetup(cmd)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plots file %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return fmt.Errorf("parse plots file %s: %w", path, err)
	}

	created, err := service.Create(ctx, cfg.TrialID, fc)
	if err != nil {
		logger.Error().Err(err).Str("trial_id", cfg.TrialID).Int("created", created).Msg("creating plots failed")
		return err
	}

	fmt.Fprintf(os.Stderr, "Created %d plots for trial %s\n", created, cfg.TrialID)
	return nil
}

func browsePlotsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, service, _, err := plotsSetup(cmd)
	if err != nil {
		return err
	}

	fc, err := service.Fetch(ctx, cfg.TrialID)
	if err != nil {
		return err
	}
	if len(fc.Features) == 0 {
		return fmt.Errorf("no plots found for trial %s", cfg.TrialID)
	}

	return runBrowser(ctx, cfg.TrialID, fc.Features)
}
