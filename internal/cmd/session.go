package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/portal"
	"github.com/docflow-ai/docflow-go/internal/review"
)

func newSessionCmd(a *app) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "session [script]",
		Short: "Run a script of portal steps against one in-memory state",
		Long: `Run portal steps line by line against state that lives for the whole script.
Lines are split like a shell command line; blank lines and lines starting
with # are skipped. The script is read from the file argument or stdin.

Verbs:
    screen sponsors|requirements     switch the list the next verbs act on
    query <text>                     set the free-text search
    filter <category> <value>        toggle a filter value (status, priority, type, sponsors)
    dates <from> <to>                set the due date range ("" leaves a bound open)
    clear-filters                    drop category filters and the date range
    sort <column>                    sort by column; repeating flips direction
    select <id> | select-all | clear-selection
    action <name>                    run a bulk action on the selection
    delete <id> | inspect <id> | close
    add-sponsor key=value...         name, email, phone, address, status
    add-requirement key=value...     title, description, type, priority, due, sponsors (comma separated)
    show | stats | dashboard [sort]
    comment <text> | revise <text>   add a review comment or revision request
    decide accept|reject [comment]   record a review decision
    tab <name> | compare <version> | review | wait
    metrics                          print counters in Prometheus text format
    echo <text>`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			w, err := a.openWorkspace()
			if err != nil {
				return err
			}
			r := newSessionRunner(a, cmd, w)
			defer r.close()
			return r.run(cmd.Context(), in, keepGoing)
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "report failing lines and continue")
	return cmd
}

// listScreen is the part of a list screen the session verbs drive, with ids
// given as text.
type listScreen interface {
	name() string
	controller() listCommands
	render() string
	lastExport() (portal.ExportResult, bool)
}

// listCommands are the controller operations that do not depend on the id type.
type listCommands interface {
	SetQuery(q string)
	ToggleFilter(category listview.Category, value string)
	SetDateRange(start, end string)
	ClearFilters()
	SelectAllVisible()
	ClearSelection()
	DispatchBulkAction(ctx context.Context, action listview.Action) (int, error)
	CloseInspect()
}

// screenList adapts a typed controller to listScreen.
type screenList[K comparable, T any] struct {
	c      *listview.Controller[K, T]
	schema listview.Schema[T]
	parse  func(string) (K, error)
	table  func(*listview.Controller[K, T]) *output.Table
	export func() (portal.ExportResult, bool)
}

func (s screenList[K, T]) name() string { return s.c.Name() }

func (s screenList[K, T]) controller() listCommands { return s.c }

func (s screenList[K, T]) render() string { return s.table(s.c).RenderCompact() }

func (s screenList[K, T]) lastExport() (portal.ExportResult, bool) { return s.export() }

func (s screenList[K, T]) sortBy(column string) (listview.SortState, error) {
	if _, ok := s.schema.Columns[column]; !ok {
		return listview.SortState{}, fmt.Errorf("unknown sort column %q (valid: %s)", column, strings.Join(columnNames(s.schema), ", "))
	}
	return s.c.SortBy(column), nil
}

func (s screenList[K, T]) toggleSelect(v string) (bool, error) {
	id, err := s.parse(v)
	if err != nil {
		return false, err
	}
	return s.c.ToggleSelect(id)
}

func (s screenList[K, T]) remove(v string) error {
	id, err := s.parse(v)
	if err != nil {
		return err
	}
	return s.c.Delete(id)
}

func (s screenList[K, T]) inspect(v string) (T, error) {
	var zero T
	id, err := s.parse(v)
	if err != nil {
		return zero, err
	}
	if err := s.c.Inspect(id); err != nil {
		return zero, err
	}
	rec, _ := s.c.Store().Get(id)
	return rec, nil
}

type sessionRunner struct {
	app *app
	cmd *cobra.Command
	w   *workspace

	sponsors     screenList[int, database.Sponsor]
	requirements screenList[string, database.Requirement]
	current      string

	rev *review.Session
}

func newSessionRunner(a *app, cmd *cobra.Command, w *workspace) *sessionRunner {
	return &sessionRunner{
		app: a,
		cmd: cmd,
		w:   w,
		sponsors: screenList[int, database.Sponsor]{
			c:      w.sponsors.List(),
			schema: portal.SponsorSchema(),
			parse: func(s string) (int, error) {
				id, err := strconv.Atoi(s)
				if err != nil {
					return 0, fmt.Errorf("invalid sponsor id %q", s)
				}
				return id, nil
			},
			table:  sponsorTable,
			export: w.sponsors.LastExport,
		},
		requirements: screenList[string, database.Requirement]{
			c:      w.requirements.List(),
			schema: portal.RequirementSchema(),
			parse:  func(s string) (string, error) { return s, nil },
			table:  requirementTable,
			export: w.requirements.LastExport,
		},
		current: portal.ScreenSponsors,
	}
}

func (r *sessionRunner) close() {
	if r.rev != nil {
		r.rev.Close()
	}
}

// run executes every line of in. Without keepGoing the first failure stops
// the script.
func (r *sessionRunner) run(ctx context.Context, in io.Reader, keepGoing bool) error {
	scanner := bufio.NewScanner(in)
	lineNo, failed := 0, 0
	var firstErr error
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shellquote.Split(line)
		if err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
		} else if err = r.exec(ctx, words); err != nil {
			err = fmt.Errorf("line %d: %s: %w", lineNo, words[0], err)
		}
		if err == nil {
			continue
		}
		if !keepGoing {
			return blocked(err)
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
		r.cmd.PrintErrf("%s %v\n", output.Checkmark(false), err)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	if failed > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d script line(s) failed", failed), Err: firstErr}
	}
	return nil
}

func (r *sessionRunner) screen() listScreen {
	if r.current == portal.ScreenRequirements {
		return r.requirements
	}
	return r.sponsors
}

func (r *sessionRunner) session() (*review.Session, error) {
	if r.rev == nil {
		s, err := r.app.openReview(r.w)
		if err != nil {
			return nil, err
		}
		r.rev = s
	}
	return r.rev, nil
}

func needArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (r *sessionRunner) exec(ctx context.Context, words []string) error {
	verb, args := words[0], words[1:]
	out := r.cmd
	screen := r.screen()
	list := screen.controller()

	switch verb {
	case "echo":
		out.Println(strings.Join(args, " "))
	case "screen":
		if err := needArgs(args, 1, "screen sponsors|requirements"); err != nil {
			return err
		}
		switch args[0] {
		case portal.ScreenSponsors, portal.ScreenRequirements:
			r.current = args[0]
		default:
			return fmt.Errorf("unknown screen %q", args[0])
		}
	case "query":
		list.SetQuery(strings.Join(args, " "))
	case "filter":
		if err := needArgs(args, 2, "filter <category> <value>"); err != nil {
			return err
		}
		list.ToggleFilter(listview.Category(args[0]), args[1])
	case "dates":
		if err := needArgs(args, 2, "dates <from> <to>"); err != nil {
			return err
		}
		list.SetDateRange(args[0], args[1])
	case "clear-filters":
		list.ClearFilters()
	case "sort":
		if err := needArgs(args, 1, "sort <column>"); err != nil {
			return err
		}
		var state listview.SortState
		var err error
		if r.current == portal.ScreenRequirements {
			state, err = r.requirements.sortBy(args[0])
		} else {
			state, err = r.sponsors.sortBy(args[0])
		}
		if err != nil {
			return err
		}
		out.Printf("sorted by %s %s\n", state.Column, state.Direction)
	case "select":
		if err := needArgs(args, 1, "select <id>"); err != nil {
			return err
		}
		var on bool
		var err error
		if r.current == portal.ScreenRequirements {
			on, err = r.requirements.toggleSelect(args[0])
		} else {
			on, err = r.sponsors.toggleSelect(args[0])
		}
		if err != nil {
			return err
		}
		state := "deselected"
		if on {
			state = "selected"
		}
		out.Printf("%s %s\n", args[0], state)
	case "select-all":
		list.SelectAllVisible()
	case "clear-selection":
		list.ClearSelection()
	case "action":
		if err := needArgs(args, 1, "action <name>"); err != nil {
			return err
		}
		action, err := listview.ParseAction(args[0])
		if err != nil {
			return err
		}
		n, err := list.DispatchBulkAction(ctx, action)
		if err != nil {
			return err
		}
		out.Printf("%s %s applied to %d %s\n", output.Checkmark(true), action, n, screen.name())
		if action == listview.ActionExport {
			if res, ok := screen.lastExport(); ok {
				printExport(out, res)
			}
		}
	case "delete":
		if err := needArgs(args, 1, "delete <id>"); err != nil {
			return err
		}
		var err error
		if r.current == portal.ScreenRequirements {
			err = r.requirements.remove(args[0])
		} else {
			err = r.sponsors.remove(args[0])
		}
		if err != nil {
			return err
		}
		out.Printf("deleted %s\n", args[0])
	case "inspect":
		if err := needArgs(args, 1, "inspect <id>"); err != nil {
			return err
		}
		return r.inspect(args[0])
	case "close":
		list.CloseInspect()
	case "add-sponsor":
		return r.addSponsor(args)
	case "add-requirement":
		return r.addRequirement(args)
	case "show":
		out.Print(screen.render())
	case "stats":
		if r.current == portal.ScreenRequirements {
			printRequirementSummary(out, r.w.requirements.Stats())
		} else {
			printSponsorSummary(out, r.w.sponsors.Stats())
		}
	case "dashboard":
		return r.dashboard(args)
	case "comment", "revise":
		s, err := r.session()
		if err != nil {
			return err
		}
		c, err := s.AddComment(strings.Join(args, " "), verb == "revise")
		if err != nil {
			printValidation(out, err)
			return err
		}
		out.Printf("comment %s added by %s\n", c.ID, c.Author)
	case "decide":
		return r.decide(ctx, args)
	case "tab":
		if err := needArgs(args, 1, "tab <name>"); err != nil {
			return err
		}
		s, err := r.session()
		if err != nil {
			return err
		}
		t, err := review.ParseTab(args[0])
		if err != nil {
			return err
		}
		return s.SetTab(t)
	case "compare":
		if err := needArgs(args, 1, "compare <version>"); err != nil {
			return err
		}
		s, err := r.session()
		if err != nil {
			return err
		}
		if err := s.SelectVersion(args[0]); err != nil {
			return err
		}
		c, err := s.Compare()
		if err != nil {
			return err
		}
		printComparison(out, c)
	case "review":
		s, err := r.session()
		if err != nil {
			return err
		}
		printReview(out, s)
	case "wait":
		s, err := r.session()
		if err != nil {
			return err
		}
		if err := waitForBanner(ctx, s); err != nil {
			return err
		}
		out.Printf("review %s\n", s.State())
	case "metrics":
		return r.app.metrics.WriteText(out.OutOrStdout())
	default:
		return errors.New("unknown verb")
	}
	return nil
}

func (r *sessionRunner) inspect(id string) error {
	out := r.cmd
	if r.current == portal.ScreenRequirements {
		req, err := r.requirements.inspect(id)
		if err != nil {
			return err
		}
		out.Printf("%s %s\n  %s\n  type %s, due %s, %s, %s\n  sponsors: %s\n", req.ID, req.Title, req.Description,
			req.Type, req.DueDate, output.FormatBadge(req.Status.String()), output.FormatBadge(req.Priority.String()),
			strings.Join(req.SponsorNames(), ", "))
		return nil
	}
	sp, err := r.sponsors.inspect(id)
	if err != nil {
		return err
	}
	out.Printf("%d %s (%s)\n  %s, %s\n  %s\n  registered %s, %d plans, %s complete\n", sp.ID, sp.Name,
		output.FormatBadge(sp.Status.String()), sp.ContactEmail, sp.ContactPhone, sp.Address,
		sp.RegistrationDate, sp.PlanCount, output.FormatPercent(sp.CompletionRate))
	return nil
}

// keyValues parses key=value words.
func keyValues(args []string) (map[string]string, error) {
	kv := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		kv[strings.ToLower(k)] = v
	}
	return kv, nil
}

func (r *sessionRunner) addSponsor(args []string) error {
	kv, err := keyValues(args)
	if err != nil {
		return err
	}
	in := database.NewSponsor{
		Name:         kv["name"],
		ContactEmail: kv["email"],
		ContactPhone: kv["phone"],
		Address:      kv["address"],
	}
	if v, ok := kv["status"]; ok {
		status, err := database.ParseSponsorStatus(v)
		if err != nil {
			return err
		}
		in.Status = status
	}
	sp, err := r.w.sponsors.Create(in)
	if err != nil {
		printValidation(r.cmd, err)
		return err
	}
	r.cmd.Printf("sponsor %d created\n", sp.ID)
	return nil
}

func (r *sessionRunner) addRequirement(args []string) error {
	kv, err := keyValues(args)
	if err != nil {
		return err
	}
	form := database.DefaultRequirementForm()
	form.Title = kv["title"]
	form.Description = kv["description"]
	form.DueDate = kv["due"]
	if v, ok := kv["type"]; ok {
		form.Type = v
	}
	if v, ok := kv["priority"]; ok {
		form.Priority = v
	}
	if v := kv["sponsors"]; v != "" {
		form.SponsorIDs = strings.Split(v, ",")
	}
	req, err := r.w.requirements.Create(form)
	if err != nil {
		printValidation(r.cmd, err)
		return err
	}
	r.cmd.Printf("requirement %s created\n", req.ID)
	return nil
}

func (r *sessionRunner) dashboard(args []string) error {
	d := r.w.dashboard
	if len(args) > 0 {
		by, err := portal.ParseOverviewSort(args[0])
		if err != nil {
			return err
		}
		d.SetSort(by)
	}
	m := d.Metrics()
	r.cmd.Printf("sponsors %d, active requirements %d, pending documents %d, completion %s\n",
		m.TotalSponsors, m.ActiveRequirements, m.PendingDocuments, output.FormatPercent(m.CompletionRate))
	names := make([]string, 0, len(d.Overview()))
	for _, s := range d.Overview() {
		names = append(names, s.Name)
	}
	r.cmd.Printf("overview: %s\n", strings.Join(names, ", "))
	return nil
}

func (r *sessionRunner) decide(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "decide accept|reject [comment]"); err != nil {
		return err
	}
	s, err := r.session()
	if err != nil {
		return err
	}
	outcome, err := review.ParseOutcome(args[0])
	if err != nil {
		return err
	}
	if err := s.Decide(ctx, outcome, strings.Join(args[1:], " ")); err != nil {
		printValidation(r.cmd, err)
		return err
	}
	if b, ok := s.Banner(); ok {
		r.cmd.Printf("%s: %s\n", b.Title, b.Message)
	}
	return nil
}
