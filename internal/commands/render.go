package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"spendwise/internal/core"
	"spendwise/internal/limits"
	"spendwise/internal/log"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printExpenses(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, "No expenses.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category.DisplayName(), core.FormatCurrency(e.Amount), e.Description)
	}
	return tw.Flush()
}

func printLimits(w io.Writer, ls []core.SpendingLimit) error {
	if len(ls) == 0 {
		_, err := fmt.Fprintln(w, "No spending limits.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCATEGORY\tAMOUNT\tPERIOD\tACTIVE")
	for _, l := range ls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", l.ID, l.Category.DisplayName(), core.FormatCurrency(l.Amount), limits.FormatLimitPeriod(l.Period), l.IsActive)
	}
	return tw.Flush()
}

func printStatuses(w io.Writer, statuses []limits.Status) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(w, "No active spending limits.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tPERIOD\tSPENT\tLIMIT\tREMAINING\tUSED\tSTATE")
	for _, s := range statuses {
		state := "ok"
		switch {
		case s.IsExceeded:
			state = "exceeded"
		case s.IsNearLimit:
			state = "near limit"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
			s.Category.DisplayName(), limits.FormatLimitPeriod(s.Period),
			core.FormatCurrency(s.CurrentAmount), core.FormatCurrency(s.LimitAmount),
			core.FormatCurrency(s.RemainingAmount), s.PercentageUsed, state)
	}
	return tw.Flush()
}

func printAlerts(w io.Writer, alerts []limits.Alert) {
	for _, a := range alerts {
		fmt.Fprintf(w, "[%s] %s: %s\n", a.Severity, a.Title, a.Message)
	}
}

// logDump selects which retained entries --dump-logs writes.
type logDump struct {
	query  string
	level  string
	source string
}

func dumpLogs(w io.Writer, buf *log.Buffer, sel logDump) error {
	var entries []log.Entry
	switch {
	case sel.level != "":
		lvl, err := log.ParseLevel(sel.level)
		if err != nil {
			return err
		}
		if sel.source != "" {
			entries = buf.Filter(lvl, sel.source)
		} else {
			entries = buf.ByLevel(lvl)
		}
	case sel.query != "":
		entries = buf.Search(sel.query)
	default:
		data, err := buf.Export()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if entries == nil {
		entries = []log.Entry{}
	}
	return printJSON(w, entries)
}
