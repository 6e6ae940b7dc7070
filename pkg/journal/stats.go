package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"
)

// Bucket counts trades sharing one attribute value
type Bucket struct {
	Trades  int     `json:"trades"`
	Volume  float64 `json:"volume"`
	Capital float64 `json:"capital"`
}

// Report summarises a journal
type Report struct {
	TotalTrades     int                `json:"total_trades"`
	TotalVolume     float64            `json:"total_volume"`
	TotalCapital    float64            `json:"total_capital"`
	TotalCommission float64            `json:"total_commission"`
	AverageVolume   float64            `json:"average_volume"`
	AverageReward   float64            `json:"average_reward_to_risk"`
	FirstTrade      time.Time          `json:"first_trade"`
	LastTrade       time.Time          `json:"last_trade"`
	BySymbol        map[string]*Bucket `json:"by_symbol"`
	BySide          map[string]*Bucket `json:"by_side"`
	ByPattern       map[string]*Bucket `json:"by_pattern"`
	ByFibRatio      map[string]*Bucket `json:"by_fib_ratio"`
	ByHour          map[int]*Bucket    `json:"by_hour"`
}

// Summarize aggregates trade records into a report
func Summarize(records []TradeRecord) *Report {
	report := &Report{
		BySymbol:   make(map[string]*Bucket),
		BySide:     make(map[string]*Bucket),
		ByPattern:  make(map[string]*Bucket),
		ByFibRatio: make(map[string]*Bucket),
		ByHour:     make(map[int]*Bucket),
	}

	rewardSum := 0.0
	rewardCount := 0
	for _, rec := range records {
		report.TotalTrades++
		report.TotalVolume += rec.Volume
		report.TotalCapital += rec.Capital
		report.TotalCommission += rec.Commission

		opened := rec.OpenedTime()
		if report.FirstTrade.IsZero() || opened.Before(report.FirstTrade) {
			report.FirstTrade = opened
		}
		if opened.After(report.LastTrade) {
			report.LastTrade = opened
		}

		addTo(report.BySymbol, rec.Symbol, rec)
		addTo(report.BySide, rec.Side, rec)
		addTo(report.ByPattern, rec.Pattern, rec)
		addTo(report.ByFibRatio, fmt.Sprintf("%.3f", rec.FibRatio), rec)

		hour := opened.Hour()
		if report.ByHour[hour] == nil {
			report.ByHour[hour] = &Bucket{}
		}
		report.ByHour[hour].add(rec)

		if rr, ok := rewardToRisk(rec); ok {
			rewardSum += rr
			rewardCount++
		}
	}

	if report.TotalTrades > 0 {
		report.AverageVolume = report.TotalVolume / float64(report.TotalTrades)
	}
	if rewardCount > 0 {
		report.AverageReward = rewardSum / float64(rewardCount)
	}
	return report
}

func (b *Bucket) add(rec TradeRecord) {
	b.Trades++
	b.Volume += rec.Volume
	b.Capital += rec.Capital
}

func addTo(m map[string]*Bucket, key string, rec TradeRecord) {
	if key == "" {
		key = "unknown"
	}
	if m[key] == nil {
		m[key] = &Bucket{}
	}
	m[key].add(rec)
}

// rewardToRisk is the take-profit distance over the stop-loss distance.
// Trades whose take-profit sits on the wrong side of entry score zero.
func rewardToRisk(rec TradeRecord) (float64, bool) {
	risk := math.Abs(rec.EntryPrice - rec.StopLoss)
	if risk == 0 {
		return 0, false
	}
	reward := rec.TakeProfit - rec.EntryPrice
	if strings.EqualFold(rec.Side, "SELL") {
		reward = -reward
	}
	return math.Max(reward, 0) / risk, true
}

// Print writes the report in human-readable form
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "TRADE JOURNAL REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total Trades: %d\n", r.TotalTrades)
	if r.TotalTrades == 0 {
		return
	}
	fmt.Fprintf(w, "Period: %s -> %s\n", r.FirstTrade.Format(time.RFC3339), r.LastTrade.Format(time.RFC3339))
	fmt.Fprintf(w, "Total Volume: %.2f lots (avg %.2f)\n", r.TotalVolume, r.AverageVolume)
	fmt.Fprintf(w, "Capital at Risk: $%.2f\n", r.TotalCapital)
	fmt.Fprintf(w, "Commission: $%.2f\n", r.TotalCommission)
	fmt.Fprintf(w, "Average Reward/Risk: %.2f\n", r.AverageReward)

	printBuckets(w, "By Symbol", r.BySymbol)
	printBuckets(w, "By Side", r.BySide)
	printBuckets(w, "By Pattern", r.ByPattern)
	printBuckets(w, "By Fibonacci Ratio", r.ByFibRatio)

	fmt.Fprintln(w, "\nBy Hour (UTC):")
	hours := make([]int, 0, len(r.ByHour))
	for hour := range r.ByHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	for _, hour := range hours {
		fmt.Fprintf(w, "  %02d:00 - %d trades\n", hour, r.ByHour[hour].Trades)
	}
}

func printBuckets(w io.Writer, title string, m map[string]*Bucket) {
	fmt.Fprintf(w, "\n%s:\n", title)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b := m[k]
		fmt.Fprintf(w, "  %-18s %4d trades  %8.2f lots  $%.2f\n", k, b.Trades, b.Volume, b.Capital)
	}
}

// ExportJSON writes the report as indented JSON
func (r *Report) ExportJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Analyze loads the journal at path and prints its report to w.
// When output is set the report is also exported there as JSON.
func Analyze(path, output string, w io.Writer) (*Report, error) {
	records, err := Load(path)
	if err != nil {
		return nil, err
	}

	report := Summarize(records)
	report.Print(w)

	if output != "" {
		if err := report.ExportJSON(output); err != nil {
			return nil, fmt.Errorf("failed to export report: %w", err)
		}
		fmt.Fprintf(w, "\nReport exported to: %s\n", output)
	}
	return report, nil
}
