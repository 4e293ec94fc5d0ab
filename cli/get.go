package cli

// This file contains the get subcommands, thin read-only wrappers around the
// backend clients.

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/tmbridge/tmbridge/config"
	"github.com/tmbridge/tmbridge/model"
	"github.com/tmbridge/tmbridge/testlink"
	"github.com/tmbridge/tmbridge/testrail"
)

func (a *App) getTest(ctx *cli.Context) error {
	return a.getFromTestRail(ctx, func(client *testrail.Client, id int) (model.Response, error) {
		return client.GetTest(context.Background(), id)
	})
}

func (a *App) getRun(ctx *cli.Context) error {
	return a.getFromTestRail(ctx, func(client *testrail.Client, id int) (model.Response, error) {
		return client.GetRun(context.Background(), id)
	})
}

func (a *App) getTestCase(ctx *cli.Context) error {
	return a.getFromTestLink(ctx, (*testlink.Client).GetTestCase)
}

func (a *App) getTestPlan(ctx *cli.Context) error {
	return a.getFromTestLink(ctx, (*testlink.Client).GetTestPlan)
}

func (a *App) getFromTestRail(ctx *cli.Context, fetch func(*testrail.Client, int) (model.Response, error)) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.ValidateTestRail(); err != nil {
		return err
	}

	client := testrail.New(a.logger, cfg.TestRail.BaseURL, cfg.TestRail.Email, cfg.TestRail.APIKey)

	resp, err := fetch(client, ctx.Int("id"))
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func (a *App) getFromTestLink(ctx *cli.Context, fetch func(*testlink.Client, int) (model.Response, error)) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.ValidateTestLink(); err != nil {
		return err
	}

	client, err := testlink.New(a.logger, cfg.TestLink.Endpoint, cfg.TestLink.DevKey)
	if err != nil {
		return err
	}

	resp, err := fetch(client, ctx.Int("id"))
	if err != nil {
		return err
	}

	return printJSON(resp)
}
