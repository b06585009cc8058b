package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/eleven-am/routeshift/internal/auditor"
	"github.com/eleven-am/routeshift/internal/document"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
)

type auditOptions struct {
	resolver    ResolverOptions
	concurrency int
}

func newFindLegacyHostsCommand(a *app) *cobra.Command {
	opts := auditOptions{}
	cmd := &cobra.Command{
		Use:   "find-legacy-hosts [routes-file] [hosts-file] [output-file]",
		Short: "Report hosts that still resolve into legacy routes",
		Long: `Resolve every host of the hosts file (default ` + defaultHostsFile + `) and write the
ones whose address falls inside a route of the routes file (default
` + defaultRoutesFile + `) to the output file (default ` + defaultMatchesFile + `).

Hosts that cannot be resolved are reported and skipped. The command exits
non-zero when any host could not be resolved.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolver.Validate(); err != nil {
				return err
			}
			files := []string{defaultRoutesFile, defaultHostsFile, defaultMatchesFile}
			copy(files, args)
			return a.runFindLegacyHosts(cmd, opts, files[0], files[1], files[2])
		},
	}

	fs := cmd.Flags()
	opts.resolver.AddFlags(fs)
	fs.IntVarP(&opts.concurrency, flagConcurrency, flagConcShort, auditor.DefaultConcurrency, "Number of hosts resolved in parallel.")
	return cmd
}

func (a *app) runFindLegacyHosts(cmd *cobra.Command, opts auditOptions, routesFile, hostsFile, outputFile string) error {
	routes, err := document.LoadRoutesFile(routesFile)
	if err != nil {
		return err
	}
	hosts, err := document.LoadHostsFile(hostsFile)
	if err != nil {
		return err
	}
	a.printer.AuditPlan(routesFile, len(routes), hostsFile, len(hosts))

	r, err := a.deps.NewResolver(opts.resolver)
	if err != nil {
		return err
	}

	report, err := auditor.New(r,
		auditor.WithConcurrency(opts.concurrency),
		auditor.WithLogger(a.log),
	).Audit(cmd.Context(), hosts, routes)
	if err != nil {
		return err
	}

	if err := document.WriteMatchesFile(outputFile, report.Matches); err != nil {
		return err
	}
	a.log.WithField(logfields.File, outputFile).WithField(logfields.Count, len(report.Matches)).Info("Matches written")

	a.printer.AuditSummary(report, outputFile)
	return auditError(report)
}

func auditError(report domain.AuditReport) error {
	if len(report.Failures) == 0 {
		return nil
	}
	var errs error
	for _, f := range report.Failures {
		errs = multierr.Append(errs, f.Err)
	}
	return fmt.Errorf("%d of %d hosts could not be checked: %w", len(report.Failures), report.Examined, errs)
}
