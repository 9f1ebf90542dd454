package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkart/storefront/internal/domain/errors"
	"github.com/polkart/storefront/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the sweeper.
type PaymentFacade interface {
	ExpiredPayments(ctx context.Context, limit int) ([]model.Payment, error)
	PendingPayments(ctx context.Context, provider model.PaymentProvider, limit int) ([]model.Payment, error)
	PollCapableProviders() []model.PaymentProvider
	CancelOrder(ctx context.Context, orderID int64, target model.PaymentStatus) error
	PollPayment(ctx context.Context, payment model.Payment) error
}

type sweepKind int

const (
	sweepExpire sweepKind = iota
	sweepPoll
)

type sweepJob struct {
	kind    sweepKind
	payment model.Payment
}

// Sweeper runs the expiration sweep and the provider poll sweep on fixed
// intervals, fanning per-payment work out to a bounded pool so one slow row
// never stalls the rest.
type Sweeper struct {
	facade    PaymentFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan sweepJob
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the sweep worker pool.
func NewSweeper(facade PaymentFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan sweepJob, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	var dispatchers sync.WaitGroup
	dispatchers.Add(2)
	go s.dispatch(runCtx, &dispatchers, s.dispatchExpired)
	go s.dispatch(runCtx, &dispatchers, s.dispatchPending)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dispatchers.Wait()
		close(s.jobs)
	}()
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context, wg *sync.WaitGroup, fetch func(context.Context)) {
	defer wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch(ctx)
		}
	}
}

func (s *Sweeper) dispatchExpired(ctx context.Context) {
	payments, err := s.facade.ExpiredPayments(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch expired payments failed", slog.String("error", err.Error()))
		return
	}
	s.enqueue(ctx, sweepExpire, payments)
}

func (s *Sweeper) dispatchPending(ctx context.Context) {
	for _, providerName := range s.facade.PollCapableProviders() {
		payments, err := s.facade.PendingPayments(ctx, providerName, s.batchSize)
		if err != nil {
			s.logger.Error("fetch pending payments failed",
				slog.String("provider", string(providerName)),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.enqueue(ctx, sweepPoll, payments)
	}
}

func (s *Sweeper) enqueue(ctx context.Context, kind sweepKind, payments []model.Payment) {
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- sweepJob{kind: kind, payment: payment}:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handleJob(ctx, job)
		}
	}
}

// handleJob isolates per-payment failures: a bad row is logged and the
// sweep moves on.
func (s *Sweeper) handleJob(ctx context.Context, job sweepJob) {
	switch job.kind {
	case sweepExpire:
		err := s.facade.CancelOrder(ctx, job.payment.OrderID, model.PaymentStatusTimedOut)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotCancelable) {
				// Lost the race against a webhook; the payment settled.
				return
			}
			s.logger.Error("expire payment failed",
				slog.String("payment_id", job.payment.PaymentID),
				slog.String("error", err.Error()),
			)
			return
		}
		s.logger.Warn("canceled expired payment", slog.String("payment_id", job.payment.PaymentID))
	case sweepPoll:
		if err := s.facade.PollPayment(ctx, job.payment); err != nil {
			s.logger.Error("poll payment failed",
				slog.String("payment_id", job.payment.PaymentID),
				slog.String("error", err.Error()),
			)
		}
	}
}
