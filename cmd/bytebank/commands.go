package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bytebank/internal/config"
	"bytebank/internal/models"
	"bytebank/internal/prompt"
	"bytebank/internal/tracker"
	"bytebank/internal/validate"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type app struct {
	tr     *tracker.Tracker
	owner  string
	p      *prompt.Prompter
	out    io.Writer
	errOut io.Writer
	cfg    config.Config
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "add":
		return a.add(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "filter":
		return a.filter(ctx, args)
	case "summary":
		return a.summary(ctx, args)
	case "chart":
		return a.chart(ctx, args)
	case "export":
		return a.export(ctx, args)
	}
	fmt.Fprint(a.out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// accept adapts a validator so prompt.Until hands back the raw answer.
func accept[T any](parse func(string) (T, error)) func(string) (string, error) {
	return func(s string) (string, error) {
		_, err := parse(s)
		return s, err
	}
}

// keepOr wraps a validator for update prompts, where an empty answer keeps the
// current value.
func keepOr[T any](parse func(string) (T, error)) func(string) (*string, error) {
	return func(s string) (*string, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		if _, err := parse(s); err != nil {
			return nil, err
		}
		return &s, nil
	}
}

func anyText(s string) (string, error) { return s, nil }

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func requireID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}
	return nil
}

func (a *app) cancelled() error {
	fmt.Fprintln(a.out, "Cancelled.")
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flags("add")
	date := fs.String("date", "", "Date YYYY-MM-DD (default today)")
	category := fs.String("category", "", "Category: "+categoryList())
	description := fs.String("description", "", "Description")
	amount := fs.String("amount", "", "Amount, greater than zero")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := tracker.ExpenseInput{Date: *date, Category: *category, Description: *description, Amount: *amount}
	set := setFlags(fs)

	if !set["category"] || !set["amount"] {
		var err error
		if !set["date"] {
			if in.Date, err = prompt.Until(a.p, "Date (YYYY-MM-DD, empty for today): ", accept(validate.OptionalDate)); err != nil {
				return a.promptErr(err)
			}
		}
		if !set["category"] {
			if in.Category, err = prompt.Until(a.p, "Category ("+categoryList()+"): ", accept(validate.Category)); err != nil {
				return a.promptErr(err)
			}
		}
		if !set["description"] {
			if in.Description, err = a.p.Ask("Description (optional): "); err != nil {
				return a.promptErr(err)
			}
		}
		if !set["amount"] {
			if in.Amount, err = prompt.Until(a.p, "Amount: ", accept(validate.Amount)); err != nil {
				return a.promptErr(err)
			}
		}
	}

	e, err := a.tr.AddExpense(ctx, a.owner, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense %d added: %s %s %.2f\n", e.ID, e.DateString(), e.Category, e.Amount)
	return nil
}

func (a *app) promptErr(err error) error {
	if errors.Is(err, prompt.ErrCancelled) {
		return a.cancelled()
	}
	return err
}

func (a *app) list(ctx context.Context, args []string) error {
	if err := a.flags("list").Parse(args); err != nil {
		return err
	}
	expenses, err := a.tr.ListExpenses(ctx, a.owner)
	if err != nil {
		return err
	}
	renderExpenses(a.out, expenses)
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := a.flags("get")
	id := fs.Int64("id", 0, "Expense ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	e, err := a.tr.GetExpense(ctx, a.owner, *id)
	if err != nil {
		return err
	}
	renderExpense(a.out, e)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := a.flags("update")
	id := fs.Int64("id", 0, "Expense ID")
	date := fs.String("date", "", "New date YYYY-MM-DD")
	category := fs.String("category", "", "New category")
	description := fs.String("description", "", "New description")
	amount := fs.String("amount", "", "New amount")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	var in tracker.UpdateInput
	set := setFlags(fs)
	if set["date"] {
		in.Date = date
	}
	if set["category"] {
		in.Category = category
	}
	if set["description"] {
		in.Description = description
	}
	if set["amount"] {
		in.Amount = amount
	}

	if len(set) == 1 {
		current, err := a.tr.GetExpense(ctx, a.owner, *id)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Leave a field empty to keep its current value.")
		if in, err = a.askUpdate(current); err != nil {
			return a.promptErr(err)
		}
	}

	e, err := a.tr.UpdateExpense(ctx, a.owner, *id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense %d updated.\n", e.ID)
	renderExpense(a.out, e)
	return nil
}

func (a *app) askUpdate(current *models.Expense) (tracker.UpdateInput, error) {
	var (
		in  tracker.UpdateInput
		err error
	)
	if in.Date, err = prompt.Until(a.p, fmt.Sprintf("Date [%s]: ", current.DateString()), keepOr(validate.Date)); err != nil {
		return in, err
	}
	if in.Category, err = prompt.Until(a.p, fmt.Sprintf("Category [%s]: ", current.Category), keepOr(validate.Category)); err != nil {
		return in, err
	}
	if in.Description, err = prompt.Until(a.p, fmt.Sprintf("Description [%s]: ", current.Description), keepOr(anyText)); err != nil {
		return in, err
	}
	if in.Amount, err = prompt.Until(a.p, fmt.Sprintf("Amount [%.2f]: ", current.Amount), keepOr(validate.Amount)); err != nil {
		return in, err
	}
	return in, nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	id := fs.Int64("id", 0, "Expense ID")
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if !*yes {
		e, err := a.tr.GetExpense(ctx, a.owner, *id)
		if err != nil {
			return err
		}
		renderExpense(a.out, e)
		ok, err := a.p.Confirm(fmt.Sprintf("Delete expense %d?", e.ID))
		if err != nil {
			return a.promptErr(err)
		}
		if !ok {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	if err := a.tr.DeleteExpense(ctx, a.owner, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense %d deleted.\n", *id)
	return nil
}

func (a *app) filter(ctx context.Context, args []string) error {
	fs := a.flags("filter")
	category := fs.String("category", "", "Category to match (case-insensitive)")
	date := fs.String("date", "", "Date YYYY-MM-DD to match")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set := setFlags(fs)
	var (
		expenses []models.Expense
		err      error
	)
	switch {
	case set["category"] && set["date"], !set["category"] && !set["date"]:
		return fmt.Errorf("filter needs exactly one of -category or -date")
	case set["category"]:
		expenses, err = a.tr.FilterByCategory(ctx, a.owner, *category)
	default:
		expenses, err = a.tr.FilterByDate(ctx, a.owner, *date)
	}
	if err != nil {
		return err
	}
	renderExpenses(a.out, expenses)
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	if err := a.flags("summary").Parse(args); err != nil {
		return err
	}
	total, err := a.tr.Total(ctx, a.owner)
	if err != nil {
		return err
	}
	breakdown, err := a.tr.Breakdown(ctx, a.owner)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Total: %.2f\n", total)
	if len(breakdown) == 0 {
		fmt.Fprintln(a.out, "No data")
		return nil
	}
	rows := make([][]string, 0, len(breakdown))
	for _, ct := range breakdown {
		rows = append(rows, []string{
			ct.Category.String(),
			strconv.Itoa(ct.Count),
			fmt.Sprintf("%.2f", ct.Total),
			fmt.Sprintf("%.1f%%", ct.Percentage),
		})
	}
	fmt.Fprintln(a.out, newTable("Category", "Count", "Total", "Share").Rows(rows...).String())
	return nil
}

func (a *app) chart(ctx context.Context, args []string) error {
	fs := a.flags("chart")
	by := fs.String("by", "category", "Group by category or date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var rows [][2]string
	switch *by {
	case "category":
		totals, err := a.tr.ByCategory(ctx, a.owner)
		if err != nil {
			return err
		}
		for _, c := range models.Categories {
			if v, ok := totals[c]; ok {
				rows = append(rows, [2]string{c.String(), fmt.Sprintf("%.2f", v)})
			}
		}
	case "date":
		totals, err := a.tr.ByDate(ctx, a.owner)
		if err != nil {
			return err
		}
		for _, dt := range totals {
			rows = append(rows, [2]string{dt.DateString(), fmt.Sprintf("%.2f", dt.Total)})
		}
	default:
		return fmt.Errorf("%w: -by must be category or date, got %q", models.ErrInvalidInput, *by)
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No data")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintf(a.out, "%s\t%s\n", r[0], r[1])
	}
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	out := fs.String("o", "", "Output file; relative paths land in the configured export dir (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expenses, err := a.tr.ListExpenses(ctx, a.owner)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(a.out, "No data to export.")
		return nil
	}

	if *out == "" {
		_, err := a.tr.ExportCSV(ctx, a.owner, a.out)
		return err
	}

	path := *out
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.Export.Dir, path)
	}
	n, err := writeFile(path, func(w io.Writer) (int, error) {
		return a.tr.ExportCSV(ctx, a.owner, w)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d expenses to %s\n", n, path)
	return nil
}

// writeFile creates path and fills it with write. A failed write removes the
// partial file.
func writeFile(path string, write func(io.Writer) (int, error)) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	n, err := write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderExpenses(w io.Writer, expenses []models.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses found.")
		return
	}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.DateString(),
			e.Category.String(),
			e.Description,
			fmt.Sprintf("%.2f", e.Amount),
		})
	}
	fmt.Fprintln(w, newTable("ID", "Date", "Category", "Description", "Amount").Rows(rows...).String())
}

func renderExpense(w io.Writer, e *models.Expense) {
	fmt.Fprintf(w, "ID:          %d\n", e.ID)
	fmt.Fprintf(w, "Date:        %s\n", e.DateString())
	fmt.Fprintf(w, "Category:    %s\n", e.Category)
	fmt.Fprintf(w, "Description: %s\n", e.Description)
	fmt.Fprintf(w, "Amount:      %.2f\n", e.Amount)
}
