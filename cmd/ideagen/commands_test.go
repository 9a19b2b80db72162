package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/infrastructure/messaging"
)

func TestIdeaFlagsFromFlags(t *testing.T) {
	f := &ideaFlags{
		budgetMin:  1000,
		budgetMax:  5000,
		industries: []string{"Fintech", "EdTech"},
		risk:       "low",
		trending:   true,
	}
	p, err := f.params()
	require.NoError(t, err)
	assert.Equal(t, entity.Budget{Min: 1000, Max: 5000}, p.Budget)
	assert.Equal(t, []string{"Fintech", "EdTech"}, p.Industries)
	assert.Equal(t, entity.RiskLow, p.RiskLevel)
	assert.True(t, p.SuggestTrending)
}

func TestIdeaFlagsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"budget":[5000],"industries":["Fintech"],"riskLevel":"high"}`), 0o600))

	p, err := (&ideaFlags{file: path, industries: []string{"ignored"}}).params()
	require.NoError(t, err)
	assert.Equal(t, entity.Budget{Min: 0, Max: 5000}, p.Budget)
	assert.Equal(t, []string{"Fintech"}, p.Industries)

	_, err = (&ideaFlags{file: filepath.Join(t.TempDir(), "missing.json")}).params()
	assert.Error(t, err)
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"health", "--server", srv.URL})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "is ok")
}

func TestMetricsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		m := entity.FilledMetrics("N/A")
		m.MarketSize = "5M"
		_ = json.NewEncoder(w).Encode(m)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"metrics", "Budget Buddy", "--fitness", "fits", "--server", srv.URL})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Market Size:")
	assert.Contains(t, out.String(), "5M")
}

func TestPlanCommandRequiresFitness(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"plan", "Budget Buddy"})
	assert.Error(t, cmd.Execute())
}

func TestPrintEvent(t *testing.T) {
	metrics := entity.FilledMetrics("N/A")
	metrics.Status = entity.MetricsComplete
	msg, err := messaging.NewMessage(string(entity.MetricsEventUpdate), entity.MetricsEvent{
		Event:   entity.MetricsEventUpdate,
		Title:   "Budget Buddy",
		Metrics: &metrics,
	})
	require.NoError(t, err)
	msg.SetMetadata("request_id", "req-1")

	var out bytes.Buffer
	require.NoError(t, printEvent(&out, msg))
	assert.Contains(t, out.String(), "Budget Buddy complete")
	assert.Contains(t, out.String(), "request_id: req-1")

	failed, err := messaging.NewMessage(string(entity.MetricsEventFailed), entity.MetricsEvent{
		Event: entity.MetricsEventFailed,
		Title: "Budget Buddy",
		Error: "Request timed out. Please try again.",
	})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, printEvent(&out, failed))
	assert.Contains(t, out.String(), "failed: Request timed out")

	bad := &messaging.Message{ID: "x", Payload: json.RawMessage(`"oops"`)}
	assert.Error(t, printEvent(&out, bad))
}
