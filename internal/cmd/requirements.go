package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/portal"
)

func newRequirementsCmd(a *app) *cobra.Command {
	var (
		flags      listFlags
		statuses   []string
		priorities []string
		types      []string
		sponsors   []string
		dueFrom    string
		dueTo      string
		selected   []string
		view       string
	)

	cmd := &cobra.Command{
		Use:     "requirements",
		Aliases: []string{"reqs"},
		Short:   "List, filter and act on document requirements",
		Long: `Show document requirements with search, filters, sorting and bulk actions.

Filters within one category match any value; categories combine with AND.
Due dates accept MM/DD/YYYY or YYYY-MM-DD and the range is inclusive.

Examples:
    docflow requirements --status overdue
    docflow requirements --sponsor sp1 --due-from 2024-12-01 --due-to 2024-12-31
    docflow requirements --priority high --sort dueDate
    docflow requirements --select req1 --select req4 --action send-reminders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			screen := w.requirements
			list := screen.List()

			if view != "" {
				if err := screen.SetViewMode(portal.ViewMode(view)); err != nil {
					return err
				}
			}
			list.SetQuery(flags.query)
			for _, s := range statuses {
				status, err := database.ParseRequirementStatus(s)
				if err != nil {
					return err
				}
				list.ToggleFilter(listview.CategoryStatus, status.String())
			}
			for _, p := range priorities {
				priority, err := database.ParsePriority(p)
				if err != nil {
					return err
				}
				list.ToggleFilter(listview.CategoryPriority, priority.String())
			}
			for _, t := range types {
				list.ToggleFilter(listview.CategoryType, t)
			}
			for _, id := range sponsors {
				list.ToggleFilter(listview.CategorySponsors, id)
			}
			if dueFrom != "" || dueTo != "" {
				list.SetDateRange(dueFrom, dueTo)
			}
			if err := applySort(list, portal.RequirementSchema(), flags.sortBy, flags.desc); err != nil {
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
			printRequirementSummary(cmd, screen.Stats())
			if screen.ViewMode() == portal.ViewGrid {
				cmd.Print(requirementGrid(list))
				return nil
			}
			cmd.Print(requirementTable(list).RenderCompact())
			return nil
		},
	}

	flags.register(cmd, []listview.Action{listview.ActionAssignSponsors, listview.ActionUpdateDueDate,
		listview.ActionSendReminders, listview.ActionExport, listview.ActionDelete})
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status (repeatable): pending, in-progress, completed, overdue")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "filter by priority (repeatable): low, medium, high")
	cmd.Flags().StringSliceVar(&types, "type", nil, "filter by requirement type (repeatable)")
	cmd.Flags().StringSliceVar(&sponsors, "sponsor", nil, "filter by assigned sponsor id (repeatable)")
	cmd.Flags().StringVar(&dueFrom, "due-from", "", "earliest due date")
	cmd.Flags().StringVar(&dueTo, "due-to", "", "latest due date")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "select requirement ids (repeatable)")
	cmd.Flags().StringVar(&view, "view", "", "view mode: table or grid")

	cmd.AddCommand(newRequirementAddCmd(a), newRequirementOpenCmd(a))
	return cmd
}

func newRequirementAddCmd(a *app) *cobra.Command {
	form := database.DefaultRequirementForm()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a document requirement",
		Long: `Create a document requirement and assign it to sponsors from the directory.

Example:
    docflow requirements add --title "Q1 2025 Tax Documentation" \
        --description "Quarterly filings" --type "Tax Filing" \
        --priority high --due 2025-03-31 --sponsor sp1 --sponsor sp2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			req, err := w.requirements.Create(form)
			if err != nil {
				printValidation(cmd, err)
				return blocked(err)
			}
			cmd.Printf("%s Requirement %s created: %s, due %s, %s\n", output.Checkmark(true),
				req.ID, req.Title, req.DueDate, strings.Join(req.SponsorNames(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Title, "title", "", "requirement title")
	cmd.Flags().StringVar(&form.Description, "description", "", "what sponsors must submit")
	cmd.Flags().StringVar(&form.Type, "type", form.Type, "requirement type")
	cmd.Flags().StringVar(&form.Priority, "priority", form.Priority, "priority: low, medium, high")
	cmd.Flags().StringVar(&form.DueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&form.SponsorIDs, "sponsor", nil, "assigned sponsor id (repeatable)")
	cmd.Flags().StringVar(&form.DocumentSpecs, "specs", "", "document specifications")
	cmd.Flags().StringVar(&form.ApprovalWorkflow, "workflow", form.ApprovalWorkflow, "approval workflow: single-reviewer, multi-reviewer, sequential")
	cmd.Flags().BoolVar(&form.NotifyOnSubmission, "notify", form.NotifyOnSubmission, "notify reviewers on submission")
	cmd.Flags().BoolVar(&form.AllowResubmission, "allow-resubmission", form.AllowResubmission, "allow sponsors to resubmit")
	return cmd
}

func newRequirementOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <edit|view-submissions|send-reminder> <id>",
		Short: "Run a row menu action on one requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			if err := w.requirements.Intent(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("%s %s sent for requirement %s\n", output.Checkmark(true), args[0], args[1])
			return nil
		},
	}
}

func printRequirementSummary(cmd *cobra.Command, s database.RequirementSummary) {
	cmd.Printf("Requirements: %d total, %d pending, %d in progress, %d completed, %d overdue, %s avg completion\n",
		s.Total, s.Pending, s.InProgress, s.Completed, s.Overdue, output.FormatPercent(s.AvgCompletion))
}

func requirementTable(list *listview.Controller[string, database.Requirement]) *output.Table {
	t := output.NewTable("", "ID", "Title", "Type", "Due", "Status", "Priority", "Sponsors", "Docs", "Completion").
		AlignRight(7, 8, 9)
	for _, r := range list.Visible() {
		t.AddRow(
			selectionMark(list.IsSelected(r.ID)),
			r.ID,
			output.TruncateCell(r.Title, 36),
			r.Type,
			r.DueDate,
			output.FormatBadge(r.Status.String()),
			output.FormatBadge(r.Priority.String()),
			strconv.Itoa(len(r.AssignedSponsors)),
			fmt.Sprintf("%d/%d", r.SubmittedDocuments, r.TotalDocuments),
			output.FormatPercent(r.CompletionRate),
		)
	}
	return t
}

// requirementGrid renders one card per requirement.
func requirementGrid(list *listview.Controller[string, database.Requirement]) string {
	var sb strings.Builder
	for _, r := range list.Visible() {
		fmt.Fprintf(&sb, "%s[%s] %s\n", selectionMark(list.IsSelected(r.ID)), r.ID, r.Title)
		fmt.Fprintf(&sb, "    %s | %s | due %s\n",
			output.FormatBadge(r.Status.String()), output.FormatBadge(r.Priority.String()), r.DueDate)
		fmt.Fprintf(&sb, "    Sponsors: %s\n", strings.Join(r.SponsorNames(), ", "))
		fmt.Fprintf(&sb, "    Documents: %d/%d %s %s\n\n", r.SubmittedDocuments, r.TotalDocuments,
			output.ProgressBar(float64(r.CompletionRate), 10), output.FormatPercent(r.CompletionRate))
	}
	return sb.String()
}
