package delivery

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"value-helper/utils"
)

var (
	// ErrDeliveryInProgress is returned when a share is requested while another is pending
	ErrDeliveryInProgress = errors.New("a delivery is already in progress")
	// ErrDeliveryCanceled means the caller went away mid-chain
	ErrDeliveryCanceled = errors.New("delivery canceled")
)

// Default share texts
const (
	DefaultTitle = "Value Tip - shopping price comparison"
	DefaultText  = "I found the best deal with Value Helper! Take a look at my price comparison 💰"
)

// Attempt records one strategy of a delivery
type Attempt struct {
	Strategy string
	Outcome  Outcome
	Err      error
}

// Report describes how a delivery went. Strategy is the one that finished the chain.
type Report struct {
	Strategy string
	Message  string
	Attempts []Attempt
}

// NewRequest builds a share request with the default title, text and dated file name
func NewRequest(image []byte, link string, now time.Time) Request {
	return Request{
		Image:    image,
		FileName: utils.SnapshotFileName(utils.SnapshotFilePrefix, now),
		Link:     link,
		Title:    DefaultTitle,
		Text:     DefaultText,
	}
}

// Orchestrator runs the strategy chain. Only one delivery may be pending at a time.
type Orchestrator struct {
	strategies []Strategy
	sem        *semaphore.Weighted
	busy       atomic.Bool
}

// NewOrchestrator creates an orchestrator over strategies, or the default chain when none are given
func NewOrchestrator(strategies ...Strategy) *Orchestrator {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Orchestrator{
		strategies: strategies,
		sem:        semaphore.NewWeighted(1),
	}
}

// InProgress reports whether a delivery is pending
func (o *Orchestrator) InProgress() bool {
	return o.busy.Load()
}

// Share walks the chain until a strategy succeeds. Strategy failures are recorded
// in the report and never returned; the only errors are ErrDeliveryInProgress and
// ErrDeliveryCanceled.
func (o *Orchestrator) Share(ctx context.Context, platform Platform, req Request) (Report, error) {
	if !o.sem.TryAcquire(1) {
		return Report{}, ErrDeliveryInProgress
	}
	o.busy.Store(true)
	defer func() {
		o.busy.Store(false)
		o.sem.Release(1)
	}()

	var report Report
	for _, strategy := range o.strategies {
		if ctx.Err() != nil {
			return report, ErrDeliveryCanceled
		}

		result := strategy.Attempt(ctx, platform, req)
		report.Attempts = append(report.Attempts, Attempt{Strategy: strategy.Name(), Outcome: result.Outcome, Err: result.Err})

		switch result.Outcome {
		case Success:
			report.Strategy = strategy.Name()
			report.Message = result.Message
			slog.Info("📤 Snapshot delivered", "strategy", report.Strategy, "attempts", len(report.Attempts))
			return report, nil
		case Fail:
			slog.Warn("⚠️ Delivery strategy failed, trying next", "strategy", strategy.Name(), "error", result.Err)
		}
	}

	// a chain without a terminal strategy still ends with advice
	report.Strategy = StrategyManual
	report.Message = MessageManual
	return report, nil
}
