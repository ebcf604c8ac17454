package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/portal"
)

func newSponsorsCmd(a *app) *cobra.Command {
	var (
		flags    listFlags
		statuses []string
		selected []int
	)

	cmd := &cobra.Command{
		Use:   "sponsors",
		Short: "List, filter and act on sponsor organizations",
		Long: `Show the sponsor table with search, status filters and sorting.

Select rows with --select or --select-all and run a bulk action with --action.

Examples:
    docflow sponsors --status pending
    docflow sponsors --sort completionRate --desc
    docflow sponsors --select 3 --select 8 --action activate
    docflow sponsors --select-all --action export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			screen := w.sponsors
			list := screen.List()

			list.SetQuery(flags.query)
			for _, s := range statuses {
				status, err := database.ParseSponsorStatus(s)
				if err != nil {
					return err
				}
				list.ToggleFilter(listview.CategoryStatus, status.String())
			}
			if err := applySort(list, portal.SponsorSchema(), flags.sortBy, flags.desc); err != nil {
				return err
			}
			for _, id := range selected {
				if _, err := list.ToggleSelect(id); err != nil {
					return err
				}
			}
			if flags.selectAll {
				list.SelectAllVisible()
			}

			if flags.action != "" {
				if err := runAction(cmd.Context(), cmd, list, flags.action); err != nil {
					return err
				}
				if res, ok := screen.LastExport(); ok {
					printExport(cmd, res)
				}
			}

			if flags.jsonOut {
				return printJSON(cmd, list.Visible())
			}
			printSponsorSummary(cmd, screen.Stats())
			cmd.Print(sponsorTable(list).RenderCompact())
			return nil
		},
	}

	flags.register(cmd, []listview.Action{listview.ActionActivate, listview.ActionSuspend, listview.ActionExport, listview.ActionDelete})
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status (repeatable): active, pending, inactive, suspended")
	cmd.Flags().IntSliceVar(&selected, "select", nil, "select sponsor ids (repeatable)")

	cmd.AddCommand(newSponsorAddCmd(a), newSponsorOpenCmd(a))
	return cmd
}

func newSponsorAddCmd(a *app) *cobra.Command {
	var in database.NewSponsor
	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sponsor organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			if status != "" {
				s, err := database.ParseSponsorStatus(status)
				if err != nil {
					return blocked(err)
				}
				in.Status = s
			}
			sp, err := w.sponsors.Create(in)
			if err != nil {
				printValidation(cmd, err)
				return blocked(err)
			}
			cmd.Printf("%s Sponsor %d created: %s (%s)\n", output.Checkmark(true), sp.ID, sp.Name, output.FormatBadge(sp.Status.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "organization name")
	cmd.Flags().StringVar(&in.ContactEmail, "email", "", "contact email")
	cmd.Flags().StringVar(&in.ContactPhone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&in.Address, "address", "", "mailing address")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default pending)")
	return cmd
}

func newSponsorOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <edit|view-plans> <id>",
		Short: "Run a row menu action on one sponsor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid sponsor id %q", args[1])
			}
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			if err := w.sponsors.Intent(cmd.Context(), args[0], id); err != nil {
				return err
			}
			cmd.Printf("%s %s sent for sponsor %d\n", output.Checkmark(true), args[0], id)
			return nil
		},
	}
}

func printSponsorSummary(cmd *cobra.Command, s database.SponsorSummary) {
	cmd.Printf("Sponsors: %d total, %d active, %d pending onboarding, %s avg completion\n",
		s.Total, s.Active, s.PendingOnboarding, output.FormatPercent(s.CompletionRate))
}

func sponsorTable(list *listview.Controller[int, database.Sponsor]) *output.Table {
	t := output.NewTable("", "ID", "Name", "Status", "Plans", "Pending", "Last Activity", "Completion").
		AlignRight(1, 4, 5, 7)
	for _, s := range list.Visible() {
		t.AddRow(
			selectionMark(list.IsSelected(s.ID)),
			strconv.Itoa(s.ID),
			output.TruncateCell(s.Name, 32),
			output.FormatBadge(s.Status.String()),
			strconv.Itoa(s.PlanCount),
			strconv.Itoa(s.ActiveRequirements),
			s.LastActivity,
			output.FormatPercent(s.CompletionRate),
		)
	}
	return t
}
