package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leofalp/reago/patterns/react"
	"github.com/leofalp/reago/providers/reasoning"
	"github.com/leofalp/reago/providers/tool"
	"github.com/leofalp/reago/providers/tool/calculator"
	"github.com/leofalp/reago/providers/tool/duckduckgo"
	"github.com/leofalp/reago/providers/tool/nebula"
	"github.com/leofalp/reago/providers/tool/webfetch"
)

// builtinScenario is the scenario run when no file is given.
const builtinScenario = "nebula"

// errEpisodesFailed is returned when at least one episode did not succeed.
var errEpisodesFailed = errors.New("episode did not succeed")

func newRegistry() (*tool.Registry, error) {
	tools := append(nebula.Tools(), calculator.New(), duckduckgo.New(), webfetch.New())
	return tool.NewRegistryWithTools(tools...)
}

// loadScenario resolves "nebula" to the embedded scenario and anything else
// to a YAML file path.
func loadScenario(ref string) (*reasoning.Scenario, error) {
	if ref == "" || ref == builtinScenario {
		return nebula.Scenario()
	}
	return reasoning.LoadScenarioFile(ref)
}

func (a *app) newRunCmd() *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run one scripted episode and print its trace",
		Long: "Run one scripted episode. Without an argument the built-in nebula " +
			"navigation scenario runs; otherwise the argument is a scenario YAML file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return a.run(cmd.Context(), ref, goal)
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "override the scenario goal")
	return cmd
}

func (a *app) run(ctx context.Context, ref, goal string) (err error) {
	sc, err := loadScenario(ref)
	if err != nil {
		return err
	}
	if goal != "" {
		sc.Goal = goal
	}

	stack, err := a.buildObserver(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, stack.close(ctx)) }()

	controller, err := a.newController(sc, stack)
	if err != nil {
		return err
	}
	stream, err := controller.Stream(ctx, sc.Goal, a.episodeConfig(sc))
	if err != nil {
		return err
	}

	asJSON := a.v.GetBool(flagJSON)
	p := newPrinter(a.out, a.v.GetBool(flagNoColor))
	if !asJSON {
		fmt.Fprintf(a.out, "Goal: %s\n\n", sc.Goal)
	}
	for step := range stream.Iter() {
		if !asJSON {
			p.step(step)
		}
	}
	res := stream.Result()

	if asJSON {
		if err := a.writeJSON(res.Report()); err != nil {
			return err
		}
	} else {
		p.summary("FINAL RESULT:", res)
	}
	if !res.Succeeded() {
		return fmt.Errorf("%w: %s", errEpisodesFailed, res.Outcome)
	}
	return nil
}

func (a *app) newBatchCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "batch scenario...",
		Short: "Run several scenarios concurrently and print their summaries",
		Long: "Run several independent episodes concurrently. Each argument is a " +
			"scenario YAML file or \"nebula\" for the built-in scenario.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.batch(cmd.Context(), args, concurrency)
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum episodes running at once")
	return cmd
}

func (a *app) batch(ctx context.Context, refs []string, concurrency int) (err error) {
	scenarios := make([]*reasoning.Scenario, len(refs))
	configs := make([]react.Config, len(refs))
	for i, ref := range refs {
		if scenarios[i], err = loadScenario(ref); err != nil {
			return err
		}
		configs[i] = a.episodeConfig(scenarios[i])
	}

	stack, err := a.buildObserver(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, stack.close(ctx)) }()

	results := make([]*react.EpisodeResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, sc := range scenarios {
		g.Go(func() error {
			controller, err := a.newController(sc, stack)
			if err != nil {
				return err
			}
			res, err := controller.RunEpisode(gctx, sc.Goal, configs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", sc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.Succeeded() {
			failed++
		}
	}
	if a.v.GetBool(flagJSON) {
		reports := make([]react.Report, len(results))
		for i, res := range results {
			reports[i] = res.Report()
		}
		if err := a.writeJSON(reports); err != nil {
			return err
		}
	} else {
		p := newPrinter(a.out, a.v.GetBool(flagNoColor))
		for i, res := range results {
			p.summary(fmt.Sprintf("SCENARIO %s:", scenarios[i].Name), res)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errEpisodesFailed, failed, len(results))
	}
	return nil
}

// newController builds a controller with a fresh registry for one scenario.
func (a *app) newController(sc *reasoning.Scenario, stack *observerStack) (*react.Controller, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}
	adapter := reasoning.Chain(sc.Adapter(), reasoning.WithLogging(stack.logger, reasoning.LogLevelStandard))
	return react.New(registry, adapter, react.WithObserver(stack.provider))
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
