package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/review"
)

func newReviewCmd(a *app) *cobra.Command {
	var (
		decision string
		comment  string
		note     string
		revision bool
		tab      string
		compare  string
		wait     bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the submitted document",
		Long: `Open the document under review, add comments and record a decision.

A rejection needs a comment explaining what the sponsor must fix.

Examples:
    docflow review --tab history
    docflow review --note "Schedule C totals do not match" --revision
    docflow review --decision reject --comment "Missing signature page"
    docflow review --decision accept --wait
    docflow review --compare ver-001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			s, err := a.openReview(w)
			if err != nil {
				return err
			}
			defer s.Close()

			if note != "" {
				c, err := s.AddComment(note, revision)
				if err != nil {
					printValidation(cmd, err)
					return blocked(err)
				}
				cmd.Printf("%s Comment added by %s at %s\n", output.Checkmark(true), c.Author, c.Timestamp)
			}

			if decision != "" {
				outcome, err := review.ParseOutcome(decision)
				if err != nil {
					return err
				}
				if err := s.Decide(cmd.Context(), outcome, comment); err != nil {
					printValidation(cmd, err)
					return blocked(err)
				}
				if b, ok := s.Banner(); ok {
					cmd.Printf("%s %s: %s\n", output.Checkmark(outcome == review.Accept), b.Title, b.Message)
				}
				if wait {
					if err := waitForBanner(cmd.Context(), s); err != nil {
						return err
					}
					cmd.Printf("Review %s\n", s.State())
				}
				if tab == "" {
					tab = string(review.TabHistory)
				}
			}

			if tab != "" {
				t, err := review.ParseTab(tab)
				if err != nil {
					return err
				}
				if err := s.SetTab(t); err != nil {
					return err
				}
			}

			printReview(cmd, s)

			if compare != "" {
				if err := s.SelectVersion(compare); err != nil {
					return err
				}
				c, err := s.Compare()
				if err != nil {
					return err
				}
				printComparison(cmd, c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&decision, "decision", "", "record a decision: accept or reject")
	cmd.Flags().StringVar(&comment, "comment", "", "decision comment (required to reject)")
	cmd.Flags().StringVar(&note, "note", "", "add a comment to the document")
	cmd.Flags().BoolVar(&revision, "revision", false, "mark the note as a revision request")
	cmd.Flags().StringVar(&tab, "tab", "", "section to show: metadata, history, comments, versions")
	cmd.Flags().StringVar(&compare, "compare", "", "compare a version id with the latest version")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the decision banner is dismissed")
	return cmd
}

// waitForBanner blocks until the decision banner has been dismissed.
func waitForBanner(ctx context.Context, s *review.Session) error {
	select {
	case <-s.BannerDone():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printReview(cmd *cobra.Command, s *review.Session) {
	r := s.Review()
	width := 80
	cmd.Println(output.Header(r.Document.Name, width))
	cmd.Printf("  %s | %s | %d pages | %s\n", r.Metadata.Sponsor, r.Metadata.Requirement,
		r.Document.Pages, output.FormatBadge(r.Metadata.Status))
	cmd.Println()

	switch s.Tab() {
	case review.TabHistory:
		cmd.Println(output.SubHeader("Submission History", width))
		t := output.NewTable("Date", "Action", "Reviewer", "Status", "Comment")
		for _, h := range s.History() {
			t.AddRow(h.Date, h.Action, h.Reviewer, output.FormatBadge(string(h.Status)), output.TruncateCell(h.Comment, 40))
		}
		cmd.Print(t.RenderCompact())
	case review.TabComments:
		cmd.Println(output.SubHeader("Comments", width))
		for _, c := range s.Comments() {
			kind := ""
			if c.IsRevisionRequest {
				kind = " " + output.Color("[revision request]", output.Yellow)
			}
			cmd.Printf("  %s (%s) %s%s\n    %s\n", c.Author, c.Role, c.Timestamp, kind, c.Content)
		}
	case review.TabVersions:
		cmd.Println(output.SubHeader("Versions", width))
		t := output.NewTable("ID", "Version", "Submitted", "Status", "Changes").AlignRight(1)
		for _, v := range s.Versions() {
			t.AddRow(v.ID, fmt.Sprintf("v%d", v.Version), v.SubmittedDate, output.FormatBadge(string(v.Status)), output.TruncateCell(v.Changes, 40))
		}
		cmd.Print(t.RenderCompact())
	default:
		m := r.Metadata
		cmd.Println(output.SubHeader("Metadata", width))
		cmd.Printf("  Submitted:   %s\n", m.SubmittedDate)
		cmd.Printf("  Sponsor:     %s\n", m.Sponsor)
		cmd.Printf("  Requirement: %s\n", m.Requirement)
		cmd.Printf("  Status:      %s\n", output.FormatBadge(m.Status))
		cmd.Printf("  Submissions: %d\n", m.SubmissionCount)
		cmd.Printf("  File:        %s, %s\n", m.Format, m.FileSize)
	}
}

func printComparison(cmd *cobra.Command, c review.Comparison) {
	if c.Same() {
		cmd.Printf("%s is the latest version\n", c.Selected.ID)
		return
	}
	cmd.Printf("Comparing v%d (%s) with latest v%d (%s): %d version(s) apart\n",
		c.Selected.Version, c.Selected.Status, c.Latest.Version, c.Latest.Status, c.Span())
	cmd.Printf("  v%d: %s\n", c.Latest.Version, c.Latest.Changes)
}
