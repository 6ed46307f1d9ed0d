package account

import (
	"context"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"go.uber.org/zap"
)

// ImportMetrics receives per-record and per-run results. A nil recorder is
// allowed.
type ImportMetrics interface {
	RecordOutcome(status domain.OutcomeStatus)
	RunFinished(kind domain.ReportKind)
}

type ImportAccounts interface {
	Execute(ctx context.Context, records []domain.Record) domain.ImportSummary
}

type importAccounts struct {
	identity  domain.IdentityProvider
	profiles  domain.ProfileStore
	validator *RecordValidator
	metrics   ImportMetrics
	logger    *zap.Logger
}

func NewImportAccounts(identity domain.IdentityProvider, profiles domain.ProfileStore, metrics ImportMetrics, logger *zap.Logger) ImportAccounts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &importAccounts{
		identity:  identity,
		profiles:  profiles,
		validator: NewRecordValidator(),
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute creates one account per record, strictly one at a time. A failed
// account creation is recorded and the loop moves on; a failed profile write is
// only logged and the record still counts as created.
func (uc *importAccounts) Execute(ctx context.Context, records []domain.Record) domain.ImportSummary {
	summary := domain.ImportSummary{}
	if len(records) == 0 {
		summary.InvalidRows = true
		uc.finish(summary)
		return summary
	}

	for _, record := range records {
		if !uc.validator.Valid(record) {
			summary.InvalidRows = true
			summary.SkippedCount++
			continue
		}

		outcome := uc.importRecord(ctx, record)
		summary.Add(outcome)
		if uc.metrics != nil {
			uc.metrics.RecordOutcome(outcome.Status)
		}
	}

	uc.finish(summary)
	return summary
}

func (uc *importAccounts) importRecord(ctx context.Context, record domain.Record) domain.ImportOutcome {
	email := record.Email()

	userID, err := uc.identity.CreateAccount(ctx, email, record.Password())
	if err != nil {
		uc.logger.Warn("create account failed", zap.String("email", email), zap.Error(err))
		return domain.FailedOutcome(email, err)
	}

	if err := uc.profiles.PutProfile(ctx, domain.Profile{UserID: userID, Email: email}); err != nil {
		uc.logger.Error("put profile failed", zap.String("email", email), zap.String("user_id", userID), zap.Error(err))
	} else {
		uc.logger.Debug("account created", zap.String("email", email), zap.String("user_id", userID))
	}

	return domain.CreatedOutcome(email, userID)
}

func (uc *importAccounts) finish(summary domain.ImportSummary) {
	report := summary.Report()
	if uc.metrics != nil {
		uc.metrics.RunFinished(report.Kind)
	}
	uc.logger.Info("import finished",
		zap.String("report", string(report.Kind)),
		zap.Int64("processed", summary.ProcessedCount),
		zap.Int64("created", summary.CreatedCount),
		zap.Int64("failed", summary.FailedCount),
		zap.Int64("skipped", summary.SkippedCount),
	)
}
