package adjust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-pricer/internal/model"
	"github.com/rickgao/market-pricer/internal/pricing"
	"github.com/rickgao/market-pricer/internal/ratelimit"
)

// ErrNotAuthenticated is returned when an operation needs a signed-in session.
var ErrNotAuthenticated = errors.New("authenticated session required")

// OrderClient is the marketplace order API.
type OrderClient interface {
	GetOwnOrders(ctx context.Context, username string) (model.OrderBook, error)
	GetItemOrders(ctx context.Context, itemKey string) (model.OrderBook, error)
	UpdateOrder(ctx context.Context, orderID string, patch model.OrderPatch) (*model.MarketOrder, error)
}

// ItemCatalog resolves item descriptors.
type ItemCatalog interface {
	Describe(ctx context.Context, key string) (model.Item, error)
	Remember(item model.Item)
}

// SessionState exposes the signed-in account.
type SessionState interface {
	Authenticated() bool
	CurrentUser() (model.User, bool)
}

// Config holds orchestrator configuration.
type Config struct {
	Threshold float64 // Min |delta|/newPrice worth changing
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.05,
	}
}

// Orchestrator runs adjustment batches.
type Orchestrator struct {
	cfg      Config
	orders   OrderClient
	items    ItemCatalog
	session  SessionState
	strategy pricing.Strategy
	pacer    ratelimit.Pacer
	logger   *slog.Logger
}

// New creates an Orchestrator. A nil pacer paces at one call per second.
func New(cfg Config, orders OrderClient, items ItemCatalog, session SessionState, strategy pricing.Strategy, pacer ratelimit.Pacer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if pacer == nil {
		pacer = ratelimit.NewTokenBucket(ratelimit.DefaultInterval, 1)
	}
	if strategy == nil {
		strategy = pricing.ModeStrategy{Options: pricing.DefaultOptions()}
	}
	if cfg.Threshold < 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}

	return &Orchestrator{
		cfg:      cfg,
		orders:   orders,
		items:    items,
		session:  session,
		strategy: strategy,
		pacer:    pacer,
		logger:   logger,
	}
}

// LoadListings fetches the caller's own visible listings of one side.
func (o *Orchestrator) LoadListings(ctx context.Context, side model.OrderType) ([]model.MarketOrder, error) {
	user, err := o.currentUser()
	if err != nil {
		return nil, err
	}

	if err := o.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	book, err := o.orders.GetOwnOrders(ctx, user.InGameName)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	var out []model.MarketOrder
	for _, l := range book.Side(side) {
		if o.items != nil {
			o.items.Remember(l.Item)
		}
		if l.Visible {
			out = append(out, l)
		}
	}

	o.logger.Info("loaded listings",
		"side", side,
		"visible", len(out),
		"total", len(book.Side(side)),
	)
	return out, nil
}

// Run processes listings of the given side in order. Invisible listings
// and listings of the other side are ignored.
//
// ctx is checked between listings only; calls already started run to
// completion. A cancelled run returns its partial summary with Cancelled set.
func (o *Orchestrator) Run(ctx context.Context, listings []model.MarketOrder, side model.OrderType, mode Mode) (*Summary, error) {
	if !side.Valid() {
		return nil, &model.ValidationError{Field: "side", Value: string(side), Reason: "must be buy or sell"}
	}

	var own string
	switch mode {
	case ModeApply:
		user, err := o.currentUser()
		if err != nil {
			return nil, err
		}
		own = user.InGameName
	case ModeDryRun:
		if o.session != nil {
			if user, ok := o.session.CurrentUser(); ok {
				own = user.InGameName
			}
		}
	default:
		return nil, &model.ValidationError{Field: "mode", Value: string(mode), Reason: "must be dry-run or apply"}
	}

	summary := newSummary(uuid.NewString(), mode, side, o.strategy.Name())
	logger := o.logger.With("run_id", summary.RunID, "mode", mode, "side", side)
	logger.Info("adjustment run started", "listings", len(listings), "strategy", summary.Strategy)

	for _, listing := range listings {
		if !listing.Visible || listing.Type != side {
			continue
		}
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		res, err := o.process(ctx, logger, listing, side, own, mode)
		if err != nil {
			// Only pacing is interrupted by cancellation.
			summary.Cancelled = true
			break
		}
		summary.record(res)
	}

	summary.FinishedAt = time.Now()
	logSummary(logger, summary)
	return summary, nil
}

// Replay applies the recommendations of a dry-run summary without fetching
// order books again. Other results are carried over unchanged.
func (o *Orchestrator) Replay(ctx context.Context, dryRun *Summary) (*Summary, error) {
	if dryRun == nil {
		return nil, &model.ValidationError{Field: "summary", Reason: "nil dry-run summary"}
	}
	if _, err := o.currentUser(); err != nil {
		return nil, err
	}

	summary := newSummary(uuid.NewString(), ModeApply, dryRun.Side, dryRun.Strategy)
	logger := o.logger.With("run_id", summary.RunID, "mode", ModeApply, "side", dryRun.Side, "replay_of", dryRun.RunID)
	logger.Info("replaying dry run", "pending", len(dryRun.Pending()))

	for _, prev := range dryRun.Results {
		if prev.Outcome != OutcomeRecommended {
			summary.record(prev)
			continue
		}
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		res := prev
		adj := *prev.Adjustment
		res.Adjustment = &adj
		if err := o.apply(ctx, logger, &res); err != nil {
			summary.Cancelled = true
			break
		}
		summary.record(res)
	}

	summary.FinishedAt = time.Now()
	logSummary(logger, summary)
	return summary, nil
}

// process handles one listing. The returned error is non-nil only when
// pacing was interrupted by ctx.
func (o *Orchestrator) process(ctx context.Context, logger *slog.Logger, listing model.MarketOrder, side model.OrderType, own string, mode Mode) (ListingResult, error) {
	res := ListingResult{Order: listing}
	call := context.WithoutCancel(ctx)
	logger = logger.With("order_id", listing.ID, "item", listing.Item.Key)

	item := listing.Item
	if item.Tags == nil && o.items != nil {
		if err := o.pacer.Wait(ctx); err != nil {
			return res, err
		}
		described, err := o.items.Describe(call, item.Key)
		if err != nil {
			return o.failed(logger, res, fmt.Errorf("describe item: %w", err)), nil
		}
		item = described
	}

	class, err := pricing.Classify(item)
	if err != nil {
		return o.failed(logger, res, err), nil
	}

	if class.Leveled() && listing.RankOrZero() != class.MaxRank {
		return skipped(logger, res, SkipNonMaxRank), nil
	}

	if err := o.pacer.Wait(ctx); err != nil {
		return res, err
	}
	book, err := o.orders.GetItemOrders(call, item.Key)
	if err != nil {
		return o.failed(logger, res, fmt.Errorf("fetch order book: %w", err)), nil
	}

	rec := o.strategy.Recommend(book.Side(side), side, class, own)
	if rec == nil {
		return skipped(logger, res, SkipNoComparable), nil
	}
	res.Recommendation = rec

	if rec.Price <= 0 {
		return skipped(logger, res, SkipNonPositivePrice), nil
	}

	adj := model.NewAdjustmentResult(listing, rec.Price)
	if math.Abs(float64(adj.Delta))/float64(rec.Price) <= o.cfg.Threshold {
		return skipped(logger, res, SkipAlreadyOptimal), nil
	}
	res.Adjustment = &adj
	res.Outcome = OutcomeRecommended

	logger.Info("price change recommended",
		"old", adj.OldPrice,
		"new", adj.NewPrice,
		"change_pct", adj.PercentChange.StringFixed(1),
	)

	if mode == ModeApply {
		if err := o.apply(ctx, logger, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// apply pushes a recommended price. res is updated in place.
func (o *Orchestrator) apply(ctx context.Context, logger *slog.Logger, res *ListingResult) error {
	if err := o.pacer.Wait(ctx); err != nil {
		return err
	}

	price := res.Adjustment.NewPrice
	_, err := o.orders.UpdateOrder(context.WithoutCancel(ctx), res.Order.ID, model.OrderPatch{Price: &price})
	if err != nil {
		*res = o.failed(logger, *res, fmt.Errorf("update order: %w", err))
		return nil
	}

	res.Adjustment.Applied = true
	res.Outcome = OutcomeApplied
	logger.Info("price updated",
		"order_id", res.Order.ID,
		"old", res.Adjustment.OldPrice,
		"new", price,
	)
	return nil
}

func (o *Orchestrator) currentUser() (model.User, error) {
	if o.session == nil || !o.session.Authenticated() {
		return model.User{}, ErrNotAuthenticated
	}
	user, ok := o.session.CurrentUser()
	if !ok {
		return model.User{}, ErrNotAuthenticated
	}
	return user, nil
}

func (o *Orchestrator) failed(logger *slog.Logger, res ListingResult, err error) ListingResult {
	logger.Warn("listing failed", "err", err)
	res.Outcome = OutcomeFailed
	res.Err = err
	return res
}

func skipped(logger *slog.Logger, res ListingResult, reason string) ListingResult {
	logger.Debug("listing skipped", "reason", reason)
	res.Outcome = OutcomeSkipped
	res.SkipReason = reason
	return res
}

func logSummary(logger *slog.Logger, s *Summary) {
	logger.Info("adjustment run complete",
		"processed", s.Processed,
		"skipped", s.SkippedTotal(),
		"recommended", s.Recommended,
		"applied", s.Applied,
		"failed", s.Failed,
		"cancelled", s.Cancelled,
		"duration", s.FinishedAt.Sub(s.StartedAt),
	)
}
