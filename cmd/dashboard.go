package cmd

import (
	"github.com/huangsam/riskboard/core"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/spf13/cobra"
)

// dashboardCmd renders the summary and every chart.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the bug risk dashboard.",
	Long: `Bucket bug records by day, week or month and chart them over time.

The dashboard has one chart per concern:
- Testing tags attached to each changeset
- Risk bands of changes from the last two months
- Regressions versus other bugs
- Bug types (crash, memory, performance, security)
- Average fix time, time to bug and time to confirm

Buckets with no data stay on the axis so gaps are visible.

Examples:
  # Weekly dashboard from a records file
  riskboard dashboard --input records.json

  # Monthly buckets, limited to bugs blocking a meta bug
  riskboard dashboard --input records.yaml --grouping month --meta-bug 1234

  # Include the sorted bug table
  riskboard dashboard --input records.json --details --sort Riskiness

  # Standalone HTML page with interactive charts
  riskboard dashboard --input records.json --output html --output-file dashboard.html

  # Read the latest imported records from the store
  riskboard dashboard --source store`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg, recordSource); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}

// tableCmd renders the sorted bug table.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show resolved bugs in a sortable table.",
	Long: `List resolved bugs with their testing tags, coverage, risk band and top
regression components.

Open bugs are left out. Sort keys:
- Date      resolution date (default)
- Riskiness risk band, with bugs without changesets lowest
- Bug       bug ID
- Coverage  ratio of covered to added lines

Examples:
  # Riskiest changes first
  riskboard table --input records.json --sort Riskiness

  # Least covered changes first, top 20
  riskboard table --input records.json --sort Coverage --direction ASC --limit 20

  # Export for a spreadsheet
  riskboard table --input records.json --output csv --output-file bugs.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTable(rootCtx, cfg, recordSource); err != nil {
			contract.LogFatal("Cannot build table", err)
		}
	},
}
