// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/store"
)

type FormatType string

const (
	FormatJSON  FormatType = "json"
	FormatTable FormatType = "table"
)

// RateQuote bundles the two numbers clients ask for at store time.
type RateQuote struct {
	Rate      float64 `json:"rate"`
	StoreCost uint64  `json:"store_cost"`
}

// StoreQuote is the price of storing one new data unit.
type StoreQuote struct {
	Cost        uint64  `json:"cost"`
	Utilization float64 `json:"utilization"`
}

type Formatter struct {
	format FormatType
}

func NewFormatter(format FormatType) *Formatter {
	return &Formatter{format: format}
}

func (f *Formatter) Format(data interface{}) (string, error) {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(data)
	case FormatTable:
		return f.formatTable(data)
	default:
		return "", fmt.Errorf("unsupported format: %s", f.format)
	}
}

func (f *Formatter) formatJSON(data interface{}) (string, error) {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(output), nil
}

func (f *Formatter) formatTable(data interface{}) (string, error) {
	switch v := data.(type) {
	case *RateQuote:
		return formatRateQuoteTable(v)
	case *StoreQuote:
		return formatStoreQuoteTable(v)
	case *farming.RewardDecision:
		return formatDecisionTable(v)
	case []store.DecisionRecord:
		return formatHistoryTable(v)
	default:
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "Type:\t%T\n", v)
		_, _ = fmt.Fprintf(w, "Value:\t%v\n", v)
		_ = w.Flush()
		return buf.String(), nil
	}
}

func formatRateQuoteTable(q *RateQuote) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Farming Rate:\t%.6f\n", q.Rate)
	_, _ = fmt.Fprintf(w, "Store Cost:\t%d\n", q.StoreCost)
	_ = w.Flush()
	return buf.String(), nil
}

func formatStoreQuoteTable(q *StoreQuote) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Store Cost:\t%d\n", q.Cost)
	_, _ = fmt.Fprintf(w, "Utilization:\t%.2f\n", q.Utilization)
	_ = w.Flush()
	return buf.String(), nil
}

func formatDecisionTable(d *farming.RewardDecision) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Granted:\t%v\n", d.Granted)
	_, _ = fmt.Fprintf(w, "Amount:\t%d\n", d.Amount)
	_, _ = fmt.Fprintf(w, "New Age:\t%d\n", d.NewAge)
	_ = w.Flush()
	return buf.String(), nil
}

func formatHistoryTable(records []store.DecisionRecord) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tEVENT\tITEM\tFARMER\tGRANTED\tAMOUNT\tAGE")
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%d\t%d\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.EventID, rec.ItemID, rec.FarmerID, rec.Granted, rec.Amount, rec.Age)
	}
	_ = w.Flush()
	return buf.String(), nil
}
