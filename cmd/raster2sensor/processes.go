package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/phenocover/raster2sensor/internal/config"
	"github.com/phenocover/raster2sensor/internal/logging"
	"github.com/phenocover/raster2sensor/internal/processes"
	"github.com/phenocover/raster2sensor/pkg/downloader"
)

var processesURLFlag = &cli.StringFlag{
	Name:  "processes-url",
	Usage: "OGC API Processes landing page URL",
}

func newProcessesCommand() *cli.Command {
	return &cli.Command{
		Name:  "processes",
		Usage: "Work with OGC API Processes",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List available processes",
				Flags:  []cli.Flag{configFlag, processesURLFlag},
				Action: listProcessesAction,
			},
			{
				Name:      "execute",
				Usage:     "Execute a process",
				ArgsUsage: "<process-id>",
				Flags: []cli.Flag{
					configFlag, processesURLFlag,
					&cli.StringSliceFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Process input as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Poll the job until it finishes",
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Interval between job status polls",
						Value: 5 * time.Second,
					},
				},
				Action: executeProcessAction,
			},
			{
				Name:      "results",
				Usage:     "Fetch a finished job's results, downloading href outputs",
				ArgsUsage: "<job-id>",
				Flags: []cli.Flag{
					configFlag, processesURLFlag,
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Directory for downloaded outputs",
						Value:   ".",
					},
				},
				Action: processResultsAction,
			},
		},
	}
}

// processesClient resolves the endpoint from --processes-url or the config
// file and builds the client.
func processesClient(cmd *cli.Command) (*processes.Client, error) {
	endpoint := cmd.String(processesURLFlag.Name)
	configPath := cmd.String(configFlag.Name)

	if endpoint != "" && configPath != "" {
		return nil, config.ErrConflictingSources
	}
	if endpoint == "" {
		if configPath == "" {
			return nil, fmt.Errorf("supply either --processes-url or --config with processes_url set")
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if cfg.ProcessesURL == "" {
			return nil, fmt.Errorf("config %s has no processes_url", configPath)
		}
		endpoint = cfg.ProcessesURL
	}

	logger, err := loggerFromCommand(cmd, nil)
	if err != nil {
		return nil, err
	}
	return processes.NewClient(endpoint, logging.NewLogger(logger, "processes")), nil
}

func listProcessesAction(ctx context.Context, cmd *cli.Command) error {
	client, err := processesClient(cmd)
	if err != nil {
		return err
	}

	list, err := client.ListProcesses(ctx)
	if err != nil {
		return err
	}
	return writeJSON(list, "")
}

func executeProcessAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected 1 argument: process id")
	}

	client, err := processesClient(cmd)
	if err != nil {
		return err
	}

	inputs, err := parseInputs(cmd.StringSlice("input"))
	if err != nil {
		return err
	}

	job, err := client.Execute(ctx, cmd.Args().First(), inputs)
	if err != nil {
		return err
	}

	if cmd.Bool("wait") {
		job, err = client.Wait(ctx, job.JobID, cmd.Duration("poll-interval"))
		if err != nil {
			return err
		}
		if job.Status != processes.StatusSuccessful {
			return fmt.Errorf("job %s finished with status %s: %s", job.JobID, job.Status, job.Message)
		}
	}

	return writeJSON(job, "")
}

func processResultsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected 1 argument: job id")
	}

	client, err := processesClient(cmd)
	if err != nil {
		return err
	}

	jobID := cmd.Args().First()
	results, err := client.Results(ctx, jobID)
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	downloaded := 0
	for name, output := range results {
		href := outputHref(output)
		if href == "" {
			continue
		}
		dest := filepath.Join(dir, outputFileName(name, href))
		if err := downloader.Download(ctx, href, dest); err != nil {
			return fmt.Errorf("download output %q: %w", name, err)
		}
		fmt.Fprintf(os.Stderr, "Downloaded %s -> %s\n", name, dest)
		downloaded++
	}
	if downloaded == 0 {
		// Inline outputs only; print the result document itself.
		return writeJSON(results, "")
	}
	return nil
}

// parseInputs converts repeated key=value flags into an execute request
// inputs object.
func parseInputs(pairs []string) (map[string]any, error) {
	inputs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}

func outputHref(output any) string {
	m, ok := output.(map[string]any)
	if !ok {
		return ""
	}
	href, _ := m["href"].(string)
	return href
}

func outputFileName(name, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return name
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return name
	}
	return base
}
