package cli

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tmbridge/tmbridge/config"
)

const AppName = "tmbridge"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Report automated test results to TestRail or TestLink",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "Path to the tmbridge config file",
					Value:   config.DefaultPath,
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "report",
		Usage:  "Report a single test result",
		Action: app.report,
		Flags: []cli.Flag{
			backendFlag(),
			&cli.IntFlag{
				Name:     "test",
				Usage:    "Test ID (TestRail) or test case ID (TestLink)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "status",
				Usage:    "Result status: passed, failed, blocked, untested or retest",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "comment",
				Usage: "Free-text comment or notes attached to the result",
			},
			&cli.StringFlag{
				Name:  "elapsed",
				Usage: "Elapsed time as a duration string, e.g. \"1m 30s\" (TestRail only)",
			},
			planFlag(),
			buildFlag(),
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "batch",
		Usage:     "Report all results from a results file",
		ArgsUsage: "RESULTS_FILE",
		Action:    app.batch,
		Description: `Report all results from a JSON results file.

With the testrail backend the whole file is sent as one add_results
request. With the testlink backend the protocol has no batch call, so one
request is issued per result, in file order; the first fault aborts the
remainder unless --continue-on-fault is given.`,
		Flags: []cli.Flag{
			backendFlag(),
			&cli.IntFlag{
				Name:  "run",
				Usage: "Test run ID (TestRail)",
			},
			planFlag(),
			buildFlag(),
			&cli.BoolFlag{
				Name:  "continue-on-fault",
				Usage: "Keep reporting past individual faults (TestLink only)",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:  "get",
		Usage: "Fetch tests, runs, test cases or test plans from a backend",
		Subcommands: []*cli.Command{
			{
				Name:   "test",
				Usage:  "Fetch a TestRail test",
				Action: app.getTest,
				Flags:  []cli.Flag{idFlag()},
			},
			{
				Name:   "run",
				Usage:  "Fetch a TestRail test run",
				Action: app.getRun,
				Flags:  []cli.Flag{idFlag()},
			},
			{
				Name:   "testcase",
				Usage:  "Fetch a TestLink test case",
				Action: app.getTestCase,
				Flags:  []cli.Flag{idFlag()},
			},
			{
				Name:   "testplan",
				Usage:  "Fetch a TestLink test plan",
				Action: app.getTestPlan,
				Flags:  []cli.Flag{idFlag()},
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous reporting runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Filter by backend (testrail or testlink)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func backendFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "backend",
		Aliases:  []string{"b"},
		Usage:    "Backend to report to: testrail or testlink",
		Required: true,
	}
}

func planFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "plan",
		Usage: "Test plan ID (TestLink)",
	}
}

func buildFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "build",
		Usage: "Build ID (TestLink)",
	}
}

func idFlag() cli.Flag {
	return &cli.IntFlag{
		Name:     "id",
		Usage:    "Identifier to fetch",
		Required: true,
	}
}

// newRunID generates a random 16-byte hex run ID.
func newRunID() (string, error) {
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return "", fmt.Errorf("failed to generate run ID: %w", err)
	}
	return hex.EncodeToString(idBytes), nil
}

// flagOrDefault returns the flag value when set, otherwise the configured
// fallback.
func flagOrDefault(ctx *cli.Context, name string, fallback int) int {
	if ctx.IsSet(name) {
		return ctx.Int(name)
	}
	return fallback
}

// printJSON writes a decoded response to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
