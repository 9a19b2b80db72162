package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/infrastructure/messaging"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.FgMagenta, color.Bold)
)

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✅ "+format+"\n", args...)
}

func printError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "❌ "+format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠️  "+format+"\n", args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ️  "+format+"\n", args...)
}

func printTitle(w io.Writer, format string, args ...any) {
	titleColor.Fprintf(w, "🎯 "+format+"\n", args...)
}

func printSeparator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", 80))
}

// metricLabels 与 ExtractedMetrics.Fields 顺序一致
var metricLabels = []string{
	"Annual Revenue Potential",
	"Market Size",
	"Projected Users",
	"Time to Breakeven",
	"Initial Investment",
	"Competitive Edge",
}

func printMetrics(w io.Writer, m entity.ExtractedMetrics) {
	for i, v := range m.Fields() {
		fmt.Fprintf(w, "  %-26s %s\n", metricLabels[i]+":", v)
	}
	if m.Status != "" {
		fmt.Fprintf(w, "  %-26s %s\n", "Status:", m.Status)
	}
	if m.LastUpdated != "" {
		fmt.Fprintf(w, "  %-26s %s\n", "Last Updated:", m.LastUpdated)
	}
}

// printEvent 输出一条指标生命周期事件
func printEvent(w io.Writer, msg *messaging.Message) error {
	var ev entity.MetricsEvent
	if err := msg.UnmarshalPayload(&ev); err != nil {
		return fmt.Errorf("invalid metrics event %s: %w", msg.ID, err)
	}

	stamp := msg.CreatedAt.Local().Format("15:04:05")
	switch {
	case ev.Event == entity.MetricsEventFailed:
		printError(w, "[%s] %s failed: %s", stamp, ev.Title, ev.Error)
	case ev.Metrics != nil && ev.Metrics.Status == entity.MetricsComplete:
		printSuccess(w, "[%s] %s complete", stamp, ev.Title)
		printMetrics(w, *ev.Metrics)
	default:
		printInfo(w, "[%s] %s %s", stamp, ev.Title, ev.Label())
	}
	if id := msg.GetMetadata("request_id"); id != "" {
		fmt.Fprintf(w, "  request_id: %s\n", id)
	}
	return nil
}
