package commands_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/commands"
	"spendwise/internal/limits"
)

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "spendwise.db"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("AMQP_URL", "")
	t.Setenv("CACHE_SIZE", "0")
}

func runSpendwise(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func TestExpenseLifecycle(t *testing.T) {
	setupEnv(t)

	out, _, err := runSpendwise(t, "--json", "expense", "add", "--amount", "42.50", "--category", "food", "--description", "Groceries")
	require.NoError(t, err)

	var added struct {
		Expense struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
			Date   string  `json:"date"`
		} `json:"expense"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.NotEmpty(t, added.Expense.ID)
	assert.Equal(t, 42.5, added.Expense.Amount)
	assert.Equal(t, today(), added.Expense.Date)

	out, _, err = runSpendwise(t, "expense", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "$42.50")

	_, _, err = runSpendwise(t, "expense", "edit", added.Expense.ID, "--description", "Weekly groceries")
	require.NoError(t, err)

	out, _, err = runSpendwise(t, "expense", "list", "--category", "food", "--period", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Weekly groceries")

	out, _, err = runSpendwise(t, "expense", "show", added.Expense.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Weekly groceries")
	assert.Contains(t, out, "$42.50")
	assert.Contains(t, out, "Food")

	out, _, err = runSpendwise(t, "expense", "delete", added.Expense.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	out, _, err = runSpendwise(t, "expense", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses.")

	_, _, err = runSpendwise(t, "expense", "show", added.Expense.ID)
	assert.ErrorContains(t, err, "expense not found")
}

func TestExpenseAdd_ValidationError(t *testing.T) {
	setupEnv(t)

	_, _, err := runSpendwise(t, "expense", "add", "--amount", "-3", "--category", "food", "--description", "Snack")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Amount must be a positive number")
	assert.Equal(t, commands.ExitBadInput, commands.ExitCode(err))

	_, _, err = runSpendwise(t, "expense", "add", "--category", "food", "--description", "Snack")
	assert.Error(t, err, "amount is required")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, commands.ExitOK, commands.ExitCode(nil))
	assert.Equal(t, commands.ExitBadInput, commands.ExitCode(fmt.Errorf("create: %w", &limits.ValidationError{Errors: []string{"Amount must be greater than 0"}})))
	assert.Equal(t, commands.ExitFailure, commands.ExitCode(limits.ErrLimitNotFound))
}

func TestLimitsWorkflow(t *testing.T) {
	setupEnv(t)

	out, _, err := runSpendwise(t, "--json", "limits", "add", "--category", "food", "--amount", "100", "--period", "monthly")
	require.NoError(t, err)
	var limit struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &limit))
	assert.True(t, limit.IsActive)

	out, _, err = runSpendwise(t, "expense", "add", "--amount", "85", "--category", "food", "--description", "Big shop", "--date", today())
	require.NoError(t, err)
	assert.Contains(t, out, "Approaching Limit")

	out, _, err = runSpendwise(t, "limits", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "near limit")
	assert.Contains(t, out, "85.0%")

	out, _, err = runSpendwise(t, "alerts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "You're at 85.0% of your")

	out, _, err = runSpendwise(t, "alerts", "list", "--critical")
	require.NoError(t, err)
	assert.Contains(t, out, "No alerts.")

	_, _, err = runSpendwise(t, "limits", "edit", limit.ID, "--amount", "50")
	require.NoError(t, err)
	out, _, err = runSpendwise(t, "alerts", "list", "--critical")
	require.NoError(t, err)
	assert.Contains(t, out, "Limit Exceeded")

	out, _, err = runSpendwise(t, "limits", "toggle", limit.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "paused")

	out, _, err = runSpendwise(t, "limits", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "false")

	_, _, err = runSpendwise(t, "limits", "delete", limit.ID)
	require.NoError(t, err)
	_, _, err = runSpendwise(t, "limits", "delete", limit.ID)
	assert.ErrorContains(t, err, "limit not found")
}

func TestLimitsAdd_Invalid(t *testing.T) {
	setupEnv(t)

	_, _, err := runSpendwise(t, "limits", "add", "--category", "food", "--amount", "100", "--period", "hourly")
	assert.Error(t, err)

	_, _, err = runSpendwise(t, "limits", "add", "--category", "travel", "--amount", "100")
	assert.Error(t, err)
}

func TestLimitsSuggest(t *testing.T) {
	setupEnv(t)

	out, _, err := runSpendwise(t, "limits", "suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions.")

	for i := 0; i < 3; i++ {
		_, _, err := runSpendwise(t, "expense", "add", "--amount", "40", "--category", "transport", "--description", "Taxi ride")
		require.NoError(t, err)
	}
	out, _, err = runSpendwise(t, "limits", "suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "Transport")
	assert.Contains(t, out, "Based on 3 transactions")
}

func TestAnalytics(t *testing.T) {
	setupEnv(t)

	_, _, err := runSpendwise(t, "expense", "add", "--amount", "30", "--category", "food", "--description", "Lunch out")
	require.NoError(t, err)
	_, _, err = runSpendwise(t, "expense", "add", "--amount", "10", "--category", "transport", "--description", "Bus fare")
	require.NoError(t, err)

	out, _, err := runSpendwise(t, "analytics", "--period", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "Total spent: $40.00")
	assert.Contains(t, out, "75.0%")

	out, _, err = runSpendwise(t, "--json", "analytics", "--category", "transport")
	require.NoError(t, err)
	var snap struct {
		Analytics struct {
			TotalExpenses float64 `json:"totalExpenses"`
		} `json:"analytics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 10.0, snap.Analytics.TotalExpenses)

	_, _, err = runSpendwise(t, "analytics", "--period", "decade")
	assert.Error(t, err)
}

func TestAnalytics_LastMonth(t *testing.T) {
	setupEnv(t)

	now := time.Now().UTC()
	firstThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastPrev := firstThis.AddDate(0, 0, -1)
	firstPrev := time.Date(lastPrev.Year(), lastPrev.Month(), 1, 0, 0, 0, 0, time.UTC)

	_, _, err := runSpendwise(t, "expense", "add", "--amount", "25", "--category", "transport",
		"--description", "Monthly pass", "--date", lastPrev.Format("2006-01-02"))
	require.NoError(t, err)
	_, _, err = runSpendwise(t, "expense", "add", "--amount", "10", "--category", "food", "--description", "Coffee beans")
	require.NoError(t, err)

	out, _, err := runSpendwise(t, "analytics", "--last-month")
	require.NoError(t, err)
	assert.Contains(t, out, "Period "+firstPrev.Format("2006-01-02")+" to "+lastPrev.Format("2006-01-02"))
	assert.Contains(t, out, "Total spent: $25.00")

	_, _, err = runSpendwise(t, "analytics", "--last-month", "--period", "week")
	assert.Error(t, err)
}

func TestDumpLogs(t *testing.T) {
	setupEnv(t)

	_, stderr, err := runSpendwise(t, "--dump-logs", "--log-search", "limit created", "limits", "add", "--category", "overall", "--amount", "500")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stderr), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Limit created", entries[0]["message"])
	assert.Equal(t, "limits", entries[0]["component"])
}

func TestDumpLogs_ByLevelAndSource(t *testing.T) {
	setupEnv(t)

	_, stderr, err := runSpendwise(t, "--dump-logs", "--log-level", "info", "--log-source", "limits",
		"limits", "add", "--category", "food", "--amount", "120")
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stderr), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Limit created", entries[0]["message"])

	_, stderr, err = runSpendwise(t, "--dump-logs", "--log-level", "error", "limits", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stderr)
}

func TestDumpLogs_SearchAndLevelExclusive(t *testing.T) {
	setupEnv(t)

	_, _, err := runSpendwise(t, "--dump-logs", "--log-search", "limit", "--log-level", "info", "limits", "list")
	assert.Error(t, err)
}

func TestAlertsListen_RequiresBroker(t *testing.T) {
	setupEnv(t)

	_, _, err := runSpendwise(t, "alerts", "listen")
	assert.ErrorContains(t, err, "AMQP_URL")
}
