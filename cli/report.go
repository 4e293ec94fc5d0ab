package cli

// This file contains the report and batch commands that send results to a
// backend and record the run in history.

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tmbridge/tmbridge/config"
	"github.com/tmbridge/tmbridge/history"
	"github.com/tmbridge/tmbridge/model"
	"github.com/tmbridge/tmbridge/results"
	"github.com/tmbridge/tmbridge/testlink"
	"github.com/tmbridge/tmbridge/testrail"
)

func (a *App) report(ctx *cli.Context) error {
	startTime := time.Now()

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	status, err := model.ParseStatus(ctx.String("status"))
	if err != nil {
		return err
	}

	backend := ctx.String("backend")
	testID := ctx.Int("test")

	run, err := a.newRun(model.RunTypeReport, backend, startTime)
	if err != nil {
		return err
	}
	run.Results = 1
	run.Requests = 1

	var resp model.Response

	switch backend {
	case "testrail":
		if err := cfg.ValidateTestRail(); err != nil {
			return err
		}
		client := testrail.New(a.logger, cfg.TestRail.BaseURL, cfg.TestRail.Email, cfg.TestRail.APIKey)
		resp, err = client.AddResult(context.Background(), testID, status, ctx.String("comment"), ctx.String("elapsed"))

	case "testlink":
		if err := cfg.ValidateTestLink(); err != nil {
			return err
		}
		client, cerr := testlink.New(a.logger, cfg.TestLink.Endpoint, cfg.TestLink.DevKey)
		if cerr != nil {
			return cerr
		}
		run.PlanID = flagOrDefault(ctx, "plan", cfg.Defaults.PlanID)
		run.BuildID = flagOrDefault(ctx, "build", cfg.Defaults.BuildID)
		resp, err = client.ReportResult(testID, run.PlanID, run.BuildID, status, ctx.String("comment"))

	default:
		return fmt.Errorf("unknown backend %q (expected testrail or testlink)", backend)
	}

	a.recordRun(run, startTime, err)

	if err != nil {
		a.logger.Error().Err(err).Int("test", testID).Msg("Failed to report result")
		return err
	}

	a.logger.Info().
		Str("backend", backend).
		Int("test", testID).
		Str("status", string(status)).
		Msg("Result reported")

	return printJSON(resp)
}

func (a *App) batch(ctx *cli.Context) error {
	startTime := time.Now()

	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("no results file specified (usage: %s batch [flags] RESULTS_FILE)", AppName)
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	records, err := results.Load(path)
	if err != nil {
		return err
	}

	backend := ctx.String("backend")

	run, err := a.newRun(model.RunTypeBatch, backend, startTime)
	if err != nil {
		return err
	}
	run.Results = len(records)

	var out any

	switch backend {
	case "testrail":
		if err := cfg.ValidateTestRail(); err != nil {
			return err
		}
		client := testrail.New(a.logger, cfg.TestRail.BaseURL, cfg.TestRail.Email, cfg.TestRail.APIKey)
		run.RunID = flagOrDefault(ctx, "run", cfg.Defaults.RunID)
		run.Requests = 1
		out, err = client.AddResults(context.Background(), run.RunID, records)

	case "testlink":
		if err := cfg.ValidateTestLink(); err != nil {
			return err
		}
		var opts []testlink.Option
		if ctx.Bool("continue-on-fault") {
			opts = append(opts, testlink.WithContinueOnFault())
		}
		client, cerr := testlink.New(a.logger, cfg.TestLink.Endpoint, cfg.TestLink.DevKey, opts...)
		if cerr != nil {
			return cerr
		}
		run.PlanID = flagOrDefault(ctx, "plan", cfg.Defaults.PlanID)
		run.BuildID = flagOrDefault(ctx, "build", cfg.Defaults.BuildID)
		run.Requests = len(records)
		out, err = client.ReportResults(run.PlanID, run.BuildID, records)

	default:
		return fmt.Errorf("unknown backend %q (expected testrail or testlink)", backend)
	}

	a.recordRun(run, startTime, err)

	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to report results")
		return err
	}

	a.logger.Info().
		Str("backend", backend).
		Int("results", run.Results).
		Int("requests", run.Requests).
		Msg("Results reported")

	return printJSON(out)
}

// newRun prepares a history entry for a reporting run.
func (a *App) newRun(runType model.RunType, backend string, startTime time.Time) (*model.Run, error) {
	id, err := newRunID()
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		ID:        id,
		Type:      runType,
		Timestamp: startTime,
		Args:      os.Args,
		Backend:   backend,
	}

	if cwd, err := os.Getwd(); err == nil {
		run.WorkDir = cwd
	}

	return run, nil
}

// recordRun writes the history entry. Failures are non-fatal.
func (a *App) recordRun(run *model.Run, startTime time.Time, opErr error) {
	run.Duration = time.Since(startTime)
	if opErr != nil {
		run.ExitCode = 1
	}

	root, err := history.Root()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record history")
		return
	}

	if _, err := history.Record(root, *run); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record history")
	}
}
