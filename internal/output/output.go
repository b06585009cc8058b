package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/eleven-am/routeshift/internal/domain"
)

// Printer writes operator-facing progress lines. It is safe for concurrent
// use; route outcomes may arrive from several workers.
type Printer struct {
	writer io.Writer
	mu     sync.Mutex

	heading *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color

	lastTable string
}

func NewPrinter(writer io.Writer, noColor bool) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	p := &Printer{
		writer:  writer,
		heading: color.New(color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.heading, p.success, p.failure, p.warning} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) ApplyPlan(source string, routeCount int, tables []domain.RouteTableID, targetENI string, dryRun bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "%d routes fetched from file %s\n", routeCount, source)
	if dryRun {
		p.warning.Fprintln(p.writer, "Dry run: no route will be created")
	}
	p.heading.Fprintln(p.writer, "Ready to update route tables:")
	for _, t := range tables {
		fmt.Fprintf(p.writer, " - %s\n", t)
	}
	fmt.Fprintln(p.writer)
	p.heading.Fprintln(p.writer, "Target network interface:")
	fmt.Fprintf(p.writer, " - %s\n\n", targetENI)
}

// RouteOutcome prints one creation request, preceded by a table heading
// whenever the table differs from the previous line.
func (p *Printer) RouteOutcome(o domain.RouteOutcome, targetENI string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if o.TableID != p.lastTable {
		p.heading.Fprintf(p.writer, "Updating route table %s\n", o.TableID)
		p.lastTable = o.TableID
	}
	fmt.Fprintf(p.writer, " - Adding route %s -> %s ", o.Route.DestinationCIDR, targetENI)
	if o.Err != nil {
		p.failure.Fprintf(p.writer, "failed: %v\n", o.Err)
		return
	}
	p.success.Fprintln(p.writer, "ok")
}

// RouteOutcomes prints a finished batch in input order, one heading per table.
func (p *Printer) RouteOutcomes(outcomes []domain.RouteOutcome, targetENI string) {
	for _, o := range outcomes {
		p.RouteOutcome(o, targetENI)
	}
}

func (p *Printer) ApplySummary(result domain.ApplyResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	failures := result.Failures()
	fmt.Fprintln(p.writer)
	line := p.success
	if len(failures) > 0 {
		line = p.failure
	}
	line.Fprintf(p.writer, "Created %d of %d routes\n", result.Succeeded, result.Attempted())
	for _, f := range failures {
		p.failure.Fprintf(p.writer, " - %s %s: %v\n", f.TableID, f.Route.DestinationCIDR, f.Err)
	}
}

func (p *Printer) AuditPlan(routesFile string, routeCount int, hostsFile string, hostCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "%d routes fetched from file %s\n", routeCount, routesFile)
	fmt.Fprintf(p.writer, "%d hosts fetched from file %s\n\n", hostCount, hostsFile)
}

func (p *Printer) AuditSummary(report domain.AuditReport, outputFile string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "Examined %d hosts, %d resolved\n", report.Examined, report.Resolved())
	for _, f := range report.Failures {
		p.warning.Fprintf(p.writer, " - %s (%s/%s/%s): %v\n", f.Host.Hostname, f.Host.ProjectID, f.Host.ComponentID, f.Host.ConfigID, f.Err)
	}

	line := p.success
	if len(report.Matches) > 0 {
		line = p.warning
	}
	line.Fprintf(p.writer, "%d hosts still routed through legacy routes\n", len(report.Matches))
	for _, m := range report.Matches {
		fmt.Fprintf(p.writer, " - %s %s -> %v\n", m.Hostname, m.Address, m.MatchedCIDRs())
	}
	fmt.Fprintf(p.writer, "Matches written to %s\n", outputFile)
}

func (p *Printer) ExportSummary(tableID domain.RouteTableID, routeCount int, outputFile string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.success.Fprintf(p.writer, "Exported %d routes from %s to %s\n", routeCount, tableID, outputFile)
}
