package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/eleven-am/routeshift/internal/applier"
	"github.com/eleven-am/routeshift/internal/document"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
)

const eniStatusInUse = "in-use"

type updateOptions struct {
	aws          AWSOptions
	concurrency  int
	dryRun       bool
	skipENICheck bool
}

func newUpdateRouteTablesCommand(a *app) *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update-route-tables <region> <route-tables> <target-eni-id> [source-file]",
		Short: "Add routes from a route document to route tables",
		Long: `Add every route of the source document (default ` + defaultRoutesFile + `) to each
of the comma separated route tables, targeting the given network interface.

A route that cannot be created is reported and the remaining routes are
still attempted. The command exits non-zero when any route failed.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.aws.Validate(); err != nil {
				return err
			}
			source := defaultRoutesFile
			if len(args) > 3 {
				source = args[3]
			}
			return a.runUpdateRouteTables(cmd, opts, args[0], args[1], args[2], source)
		},
	}

	fs := cmd.Flags()
	opts.aws.AddFlags(fs)
	fs.IntVarP(&opts.concurrency, flagConcurrency, flagConcShort, applier.DefaultConcurrency, "Number of routes created in parallel.")
	fs.BoolVarP(&opts.dryRun, flagDryRun, flagDryRunShort, false, "Print the routes that would be created without calling AWS.")
	fs.BoolVar(&opts.skipENICheck, flagSkipENICheck, false, "Do not verify that the target network interface exists.")
	return cmd
}

func (a *app) runUpdateRouteTables(cmd *cobra.Command, opts updateOptions, region, tablesArg, targetENI, source string) error {
	ctx := cmd.Context()

	tables := splitList(tablesArg)
	if len(tables) == 0 {
		return fmt.Errorf("no route table given")
	}
	if targetENI == "" {
		return fmt.Errorf("no target network interface given")
	}

	routes, err := document.LoadRoutesFile(source)
	if err != nil {
		return err
	}

	log := a.log.WithFields(logrus.Fields{
		logfields.Region:    region,
		logfields.Interface: targetENI,
	})
	a.printer.ApplyPlan(source, len(routes), tables, targetENI, opts.dryRun)

	var creator domain.RouteCreator
	if opts.dryRun {
		creator = applier.NewDryRunCreator()
	} else {
		client, err := a.deps.NewNetworkClient(ctx, region, opts.aws, log)
		if err != nil {
			return err
		}
		if !opts.skipENICheck {
			eni, err := client.GetNetworkInterface(ctx, targetENI)
			if err != nil {
				return fmt.Errorf("verify target interface: %w", err)
			}
			eniLog := log.WithFields(logrus.Fields{
				logfields.VPC:     eni.VPCID,
				logfields.Subnet:  eni.SubnetID,
				logfields.Address: eni.PrivateIP,
				logfields.Status:  eni.Status,
			})
			if eni.Status != eniStatusInUse {
				eniLog.Warn("Target interface is not attached, routes to it will be blackholed")
			} else {
				eniLog.Info("Target interface verified")
			}
		}
		creator = client
	}

	applyOpts := []applier.Option{
		applier.WithConcurrency(opts.concurrency),
		applier.WithLogger(log),
	}
	// Parallel outcomes arrive out of order, so they are printed once the
	// batch is done.
	streaming := opts.concurrency <= 1
	if streaming {
		applyOpts = append(applyOpts, applier.WithOutcomeFunc(func(o domain.RouteOutcome) {
			a.printer.RouteOutcome(o, targetENI)
		}))
	}
	result := applier.New(creator, applyOpts...).Apply(ctx, tables, routes, targetENI)

	if !streaming {
		a.printer.RouteOutcomes(result.Outcomes, targetENI)
	}
	a.printer.ApplySummary(result)
	return applyError(result)
}

func applyError(result domain.ApplyResult) error {
	failures := result.Failures()
	if len(failures) == 0 {
		return nil
	}
	var errs error
	for _, f := range failures {
		errs = multierr.Append(errs, f.Err)
	}
	return fmt.Errorf("%d of %d route creations failed: %w", len(failures), result.Attempted(), errs)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
