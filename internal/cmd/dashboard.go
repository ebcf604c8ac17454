package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/portal"
)

// dashboardView is the JSON shape of the dashboard command.
type dashboardView struct {
	Metrics    portal.Metrics      `json:"metrics"`
	Overview   []database.Sponsor  `json:"overview"`
	Activities []database.Activity `json:"activities"`
}

func newDashboardCmd(a *app) *cobra.Command {
	var (
		query   string
		status  string
		sortBy  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show portal metrics, the sponsor overview and recent activity",
		Long: `Show the headline metrics, the sponsor overview and the activity feed.

The overview can be searched by sponsor name, narrowed to one status and
sorted by name, pending requirements or most recent activity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			d := w.dashboard
			d.SetQuery(query)
			if err := d.SetStatus(status); err != nil {
				return err
			}
			by, err := portal.ParseOverviewSort(sortBy)
			if err != nil {
				return err
			}
			d.SetSort(by)

			if jsonOut {
				return printJSON(cmd, dashboardView{
					Metrics:    d.Metrics(),
					Overview:   d.Overview(),
					Activities: d.Activities(),
				})
			}

			width := 80
			m := d.Metrics()
			cmd.Println(output.Header("TPA Dashboard", width))
			cmd.Printf("  Total Sponsors:      %s\n", output.FormatCount(m.TotalSponsors))
			cmd.Printf("  Active Requirements: %s\n", output.FormatCount(m.ActiveRequirements))
			cmd.Printf("  Pending Documents:   %s\n", output.FormatCount(m.PendingDocuments))
			cmd.Printf("  Completion Rate:     %s %s\n", output.ProgressBar(float64(m.CompletionRate), 20), output.FormatPercent(m.CompletionRate))
			cmd.Println()

			cmd.Println(output.SubHeader("Sponsor Overview", width))
			t := output.NewTable("Sponsor", "Status", "Pending", "Completion", "Last Activity").AlignRight(2, 3)
			for _, s := range d.Overview() {
				t.AddRow(s.Name, output.FormatBadge(s.Status.String()), strconv.Itoa(s.ActiveRequirements),
					output.FormatPercent(s.CompletionRate), s.LastActivity)
			}
			cmd.Print(t.RenderCompact())
			cmd.Println()

			cmd.Println(output.SubHeader("Recent Activity", width))
			for _, act := range d.Activities() {
				cmd.Printf("  %-12s %s - %s (%s)\n", output.FormatBadge(string(act.Type)), act.Title, act.Sponsor, act.Timestamp)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search sponsor names")
	cmd.Flags().StringVar(&status, "status", "all", "sponsor status or 'all'")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "overview order: name, pending, activity")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
