package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// SyncService drives one batch run: it discovers charges created since the
// start date, and for each charge not yet in the checkpoint resolves the
// customer, classifies VAT against the running total, builds the invoice,
// submits it, and records progress. Charges are handled strictly in creation
// order because the running-total threshold computation is cumulative.
type SyncService struct {
	charges    domain.ChargeSource
	resolver   *CustomerResolver
	classifier domain.Classifier
	builder    *domain.InvoiceBuilder
	submitter  domain.InvoiceSubmitter
	store      domain.ProgressStore
	archive    domain.ChargeArchive
	dryRun     bool
	logger     *zap.Logger
}

func NewSyncService(
	charges domain.ChargeSource,
	resolver *CustomerResolver,
	classifier domain.Classifier,
	builder *domain.InvoiceBuilder,
	submitter domain.InvoiceSubmitter,
	store domain.ProgressStore,
	archive domain.ChargeArchive,
	dryRun bool,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		charges:    charges,
		resolver:   resolver,
		classifier: classifier,
		builder:    builder,
		submitter:  submitter,
		store:      store,
		archive:    archive,
		dryRun:     dryRun,
		logger:     logger,
	}
}

type RunResult struct {
	Processed int
	Skipped   int
}

// Run executes one sync pass over [from, to]. Per-charge failures are
// isolated: a failed charge is skipped, stays out of the checkpoint, and is
// picked up again on the next run. Run itself only fails on errors that
// invalidate the whole pass (checkpoint load, charge discovery,
// cancellation).
func (s *SyncService) Run(ctx context.Context, from, to time.Time) (*RunResult, error) {
	checkpoint, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	charges, err := s.charges.ListCharges(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}

	s.logger.Info("sync started",
		zap.Int("charges", len(charges)),
		zap.Int("already_processed", len(checkpoint.ProcessedIDs)),
		zap.Int64("running_total", checkpoint.RunningTotal),
		zap.Bool("dry_run", s.dryRun),
	)

	result := &RunResult{}
	for _, charge := range charges {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if checkpoint.IsProcessed(charge.ID) {
			s.logger.Debug("charge already processed", zap.String("charge_id", charge.ID))
			continue
		}

		if err := s.processCharge(ctx, &checkpoint, charge.ID); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.logger.Warn("charge skipped",
				zap.Error(err),
				zap.String("charge_id", charge.ID),
			)
			result.Skipped++
			continue
		}
		result.Processed++
	}

	s.logger.Info("sync finished",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int64("running_total", checkpoint.RunningTotal),
	)
	return result, nil
}

func (s *SyncService) processCharge(ctx context.Context, checkpoint *domain.SyncCheckpoint, chargeID string) error {
	// Billing name and email may only be present on the expanded customer
	// sub-resource, so always fetch the full charge.
	charge, err := s.charges.GetCharge(ctx, chargeID)
	if err != nil {
		return fmt.Errorf("failed to retrieve charge: %w", err)
	}
	if err := charge.Validate(); err != nil {
		return err
	}
	if !charge.HasCustomerDetails() {
		return domain.ErrMissingCustomerDetails
	}

	customerID, err := s.resolver.Resolve(ctx, charge.CustomerName, charge.CustomerEmail)
	if err != nil {
		return fmt.Errorf("failed to resolve customer: %w", err)
	}

	tax := s.classifier.Classify(charge.Amount, checkpoint.RunningTotal)
	invoice := s.builder.Build(charge, customerID, tax)

	if s.dryRun {
		s.logger.Info("dry run: sale not submitted",
			zap.String("charge_id", charge.ID),
			zap.String("sale_number", invoice.SaleNumber),
			zap.Int64("total_paid", invoice.TotalPaid),
			zap.String("vat_type", string(tax.VATType)),
		)
		// Advance the in-memory total so later charges classify as they
		// would in a live run, but leave the durable checkpoint untouched.
		checkpoint.MarkProcessed(charge.ID, charge.Amount)
		return nil
	}

	if err := s.submitter.SubmitSale(ctx, invoice); err != nil {
		return fmt.Errorf("failed to submit sale: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.Save(charge); err != nil {
			s.logger.Warn("failed to archive charge",
				zap.Error(err),
				zap.String("charge_id", charge.ID),
			)
		}
	}

	// Persist before trusting the advanced running total: a crash right
	// after submission must not double-apply the amount on the next run.
	if err := s.store.Record(ctx, charge.ID, charge.Amount); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	checkpoint.MarkProcessed(charge.ID, charge.Amount)

	s.logger.Info("charge invoiced",
		zap.String("charge_id", charge.ID),
		zap.String("sale_number", invoice.SaleNumber),
		zap.String("customer_id", customerID),
		zap.Int64("amount", charge.Amount),
		zap.String("vat_type", string(tax.VATType)),
		zap.Int64("running_total", checkpoint.RunningTotal),
	)
	return nil
}
