package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/market-pricer/internal/adjust"
	"github.com/rickgao/market-pricer/internal/model"
	"github.com/rickgao/market-pricer/internal/pricing"
)

// Summary writes an adjustment run summary.
func (p *Printer) Summary(s *adjust.Summary) error {
	_, err := fmt.Fprint(p.w, RenderSummary(p.styles, s))
	return err
}

// Analysis writes market statistics and the recommendations of each strategy.
func (p *Printer) Analysis(itemName string, side model.OrderType, stats *pricing.MarketStats, recs []*pricing.Recommendation) error {
	_, err := fmt.Fprint(p.w, RenderAnalysis(p.styles, itemName, side, stats, recs))
	return err
}

// Orders writes a listing table.
func (p *Printer) Orders(book model.OrderBook) error {
	_, err := fmt.Fprint(p.w, RenderOrders(p.styles, book))
	return err
}

// Profile writes an account's presence.
func (p *Printer) Profile(profile *model.Profile) error {
	_, err := fmt.Fprint(p.w, RenderProfile(p.styles, profile))
	return err
}

// RenderSummary renders the per-listing results and totals of a run.
func RenderSummary(st Styles, s *adjust.Summary) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder

	title := fmt.Sprintf("Adjustment run %s (%s, %s, %s strategy)", shortID(s.RunID), s.Mode, s.Side, s.Strategy)
	t := newTable(title, "Item", "Order", "Old", "New", "Change", "Result")
	for _, r := range s.Results {
		old, next, change := strconv.Itoa(r.Order.Price), "", ""
		if r.Adjustment != nil {
			next = strconv.Itoa(r.Adjustment.NewPrice)
			change = formatChange(r.Adjustment)
		} else if r.Recommendation != nil {
			next = st.Muted.Render(strconv.Itoa(r.Recommendation.Price))
		}
		t.addRow(itemLabel(r.Order.Item), r.Order.ID, old, next, change, resultLabel(st, r))
	}

	if len(s.Results) == 0 {
		sb.WriteString(st.Title.Render(title))
		sb.WriteString("\n")
		sb.WriteString(st.Muted.Render("No listings processed."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(t.render(st))
	}

	sb.WriteString("\n")
	sb.WriteString(renderTotals(st, s))
	sb.WriteString("\n")
	return sb.String()
}

func renderTotals(st Styles, s *adjust.Summary) string {
	lines := []string{
		fmt.Sprintf("Processed:   %d", s.Processed),
		fmt.Sprintf("Skipped:     %d", s.SkippedTotal()),
	}

	reasons := make([]string, 0, len(s.Skipped))
	for reason := range s.Skipped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("  %s: %d", reason, s.Skipped[reason])))
	}

	lines = append(lines, fmt.Sprintf("Recommended: %d", s.Recommended))
	if s.Mode == adjust.ModeApply {
		lines = append(lines, st.Good.Render(fmt.Sprintf("Applied:     %d", s.Applied)))
	}
	failed := fmt.Sprintf("Failed:      %d", s.Failed)
	if s.Failed > 0 {
		failed = st.Bad.Render(failed)
	}
	lines = append(lines, failed)

	if s.Cancelled {
		lines = append(lines, st.Warn.Render("Run cancelled before all listings were processed."))
	}
	if !s.FinishedAt.IsZero() {
		lines = append(lines, st.Muted.Render("Duration:    "+s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond).String()))
	}

	return st.Box.Render(strings.Join(lines, "\n"))
}

// RenderAnalysis renders an item's market statistics followed by one row
// per strategy recommendation. Nil stats or recommendations are shown as
// missing data.
func RenderAnalysis(st Styles, itemName string, side model.OrderType, stats *pricing.MarketStats, recs []*pricing.Recommendation) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render("Market analysis: " + itemName))
	sb.WriteString("\n")

	if stats == nil {
		sb.WriteString(st.Warn.Render("No online sellers for comparable orders."))
		sb.WriteString("\n")
	} else {
		lines := []string{
			fmt.Sprintf("Online sellers: %d (book: %d sell / %d buy)", stats.OnlineSellers, stats.SellOrders, stats.BuyOrders),
			fmt.Sprintf("Lowest price:   %d (%s tier)", stats.LowestPrice, stats.Tier),
			fmt.Sprintf("Median / mean:  %s / %s", stats.Median.StringFixed(1), stats.Mean.StringFixed(1)),
			fmt.Sprintf("Min / max:      %d / %d (range %d)", stats.Min, stats.Max, stats.PriceRange),
			fmt.Sprintf("Average gap:    %s", stats.AverageGap.StringFixed(2)),
		}
		sb.WriteString(st.Box.Render(strings.Join(lines, "\n")))
		sb.WriteString("\n")
	}

	t := newTable(fmt.Sprintf("Recommended %s price", side), "Strategy", "Price", "Market", "Mode", "Disparity", "Sample", "Anchor")
	rows := 0
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		anchor := rec.ReferenceOwner
		if anchor == "" {
			anchor = st.Muted.Render("none")
		}
		t.addRow(
			rec.Strategy,
			st.Good.Render(strconv.Itoa(rec.Price)),
			strconv.Itoa(rec.MarketPrice),
			strconv.Itoa(rec.ReferenceMode),
			strconv.FormatFloat(rec.DisparityRatio*100, 'f', 1, 64)+"%",
			strconv.Itoa(rec.SampleSize),
			anchor,
		)
		rows++
	}
	if rows == 0 {
		sb.WriteString(st.Muted.Render("No comparable orders to recommend from."))
		sb.WriteString("\n")
	} else {
		sb.WriteString("\n")
		sb.WriteString(t.render(st))
	}
	return sb.String()
}

// RenderOrders renders own listings, sell side first.
func RenderOrders(st Styles, book model.OrderBook) string {
	if len(book.Sell)+len(book.Buy) == 0 {
		return st.Muted.Render("No listings.") + "\n"
	}

	t := newTable("Listings", "ID", "Item", "Side", "Price", "Qty", "Rank", "Visible")
	for _, side := range []model.OrderType{model.OrderSell, model.OrderBuy} {
		for _, o := range book.Side(side) {
			rank := "-"
			if o.Rank != nil {
				rank = strconv.Itoa(*o.Rank)
			}
			visible := st.Good.Render("yes")
			if !o.Visible {
				visible = st.Muted.Render("no")
			}
			t.addRow(o.ID, itemLabel(o.Item), string(o.Type), strconv.Itoa(o.Price), strconv.Itoa(o.Quantity), rank, visible)
		}
	}
	return t.render(st)
}

// RenderProfile renders an account's status line.
func RenderProfile(st Styles, p *model.Profile) string {
	if p == nil {
		return ""
	}
	status := string(p.Status)
	switch p.Status {
	case model.StatusInGame:
		status = st.Good.Render(status)
	case model.StatusOnline:
		status = st.Info.Render(status)
	default:
		status = st.Muted.Render(status)
	}
	return fmt.Sprintf("%s is %s (%s, reputation %d)\n", st.Title.Render(p.InGameName), status, p.Platform, p.Reputation)
}

func formatChange(adj *model.AdjustmentResult) string {
	sign := ""
	if adj.Delta > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%d (%s%s%%)", sign, adj.Delta, sign, adj.PercentChange.StringFixed(1))
}

func resultLabel(st Styles, r adjust.ListingResult) string {
	switch r.Outcome {
	case adjust.OutcomeSkipped:
		return st.Muted.Render("skipped: " + r.SkipReason)
	case adjust.OutcomeRecommended:
		return st.Info.Render("recommended")
	case adjust.OutcomeApplied:
		return st.Good.Render("applied")
	case adjust.OutcomeFailed:
		msg := "failed"
		if r.Err != nil {
			msg += ": " + r.Err.Error()
		}
		return st.Bad.Render(msg)
	default:
		return string(r.Outcome)
	}
}

func itemLabel(item model.Item) string {
	if item.Name != "" {
		return item.Name
	}
	if item.Key != "" {
		return item.Key
	}
	return "?"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
