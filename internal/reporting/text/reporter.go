package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

// Reporter prints the provisioning outcome as a table, in plan order. A
// resource that already existed is reported as reused, not hidden; the
// operator should see what the run found as well as what it made.
type Reporter struct {
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, results []domain.ProvisioningResult) error {
	if len(results) == 0 {
		fmt.Fprintln(r.writer, "No resources were processed.")
		return nil
	}

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(tw, "Provisioning Report")
	fmt.Fprintln(tw, "===================")
	fmt.Fprintln(tw, "Status\tKind\tName\tResource ID")
	fmt.Fprintln(tw, "------\t----\t----\t-----------")

	createdCount := 0
	reusedCount := 0

	for _, res := range results {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		statusStr := ""
		if res.Created {
			createdCount++
			statusStr = green("[CREATED]")
		} else {
			reusedCount++
			statusStr = cyan("[EXISTS]")
		}

		id := res.ResourceID
		if id == "" {
			id = "<unknown>"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", statusStr, res.Spec.Kind, res.Spec.Name, id)
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Total Resources:\t%d\n", len(results))
	fmt.Fprintf(tw, "Created:\t%s\n", green(createdCount))
	fmt.Fprintf(tw, "Already Existed:\t%s\n", cyan(reusedCount))

	return nil
}
