package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eleven-am/routeshift/internal/document"
	"github.com/eleven-am/routeshift/internal/domain"
	"github.com/eleven-am/routeshift/internal/logfields"
)

const (
	localGateway        = "local"
	routeStateBlackhole = "blackhole"
)

type exportOptions struct {
	aws          AWSOptions
	targetENI    string
	includeLocal bool
}

func newExportRoutesCommand(a *app) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export-routes <region> <route-table-id> [output-file]",
		Short: "Write the IPv4 routes of a route table as a route document",
		Long: `Describe a route table and write its IPv4 routes to the output file (default
` + defaultRoutesFile + `) in the format read by update-route-tables and
find-legacy-hosts.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.aws.Validate(); err != nil {
				return err
			}
			outputFile := defaultRoutesFile
			if len(args) > 2 {
				outputFile = args[2]
			}
			return a.runExportRoutes(cmd, opts, args[0], args[1], outputFile)
		},
	}

	fs := cmd.Flags()
	opts.aws.AddFlags(fs)
	fs.StringVar(&opts.targetENI, flagTargetENI, "", "Only export routes targeting this network interface.")
	fs.BoolVar(&opts.includeLocal, flagIncludeLocal, false, "Also export the VPC local route.")
	return cmd
}

func (a *app) runExportRoutes(cmd *cobra.Command, opts exportOptions, region, tableID, outputFile string) error {
	ctx := cmd.Context()
	log := a.log.WithFields(logrus.Fields{
		logfields.Region:     region,
		logfields.RouteTable: tableID,
	})

	client, err := a.deps.NewNetworkClient(ctx, region, opts.aws, log)
	if err != nil {
		return err
	}
	table, err := client.GetRouteTable(ctx, tableID)
	if err != nil {
		return err
	}

	routes := exportableRoutes(table, opts.targetENI, opts.includeLocal, log)
	if err := document.WriteRoutesFile(outputFile, routes); err != nil {
		return err
	}
	log.WithField(logfields.Count, len(routes)).Info("Routes exported")

	a.printer.ExportSummary(tableID, len(routes), outputFile)
	return nil
}

func exportableRoutes(table *domain.RouteTableData, targetENI string, includeLocal bool, log logrus.FieldLogger) []domain.Route {
	routes := make([]domain.Route, 0, len(table.Routes))
	for _, r := range table.Routes {
		routeLog := log.WithFields(logrus.Fields{
			logfields.CIDR:   r.DestinationCIDR,
			logfields.Origin: r.Origin,
			logfields.State:  r.State,
		})
		switch {
		case r.DestinationCIDR == "":
			continue
		case r.GatewayID == localGateway && !includeLocal:
			routeLog.Debug("Skipping local route")
			continue
		case targetENI != "" && r.NetworkInterfaceID != targetENI:
			routeLog.Debug("Skipping route with another target")
			continue
		}
		if r.State == routeStateBlackhole {
			routeLog.Warn("Exporting blackholed route")
		}
		routes = append(routes, domain.Route{
			DestinationCIDR:   r.DestinationCIDR,
			TargetInterfaceID: r.NetworkInterfaceID,
		})
	}
	return routes
}
