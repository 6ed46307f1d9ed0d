package account

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	"go.uber.org/zap"
)

type FilePicker interface {
	Pick(ctx context.Context) (string, error)
}

type SourceReader interface {
	ReadText(ctx context.Context, sourcePath, encoding string) (string, error)
	ReadBytes(ctx context.Context, sourcePath string) ([]byte, error)
}

type SpreadsheetDecoder interface {
	FirstSheetCSV(data []byte) (string, error)
}

// RunGuard serializes import runs beyond a single process. TryAcquire reports
// ok=false when another holder owns the guard.
type RunGuard interface {
	TryAcquire(ctx context.Context) (release func(), ok bool, err error)
}

type RunImportInput struct {
	SourcePath string
}

type RunImportOutput struct {
	Summary domain.ImportSummary
	Report  domain.ImportReport
}

type RunImport interface {
	Execute(ctx context.Context, in RunImportInput) (RunImportOutput, error)
	Busy() bool
}

type RunImportConfig struct {
	Encoding string
	Guard    RunGuard
}

type runImport struct {
	reader    SourceReader
	decoder   SpreadsheetDecoder
	importer  ImportAccounts
	validator *RecordValidator
	cfg       RunImportConfig
	logger    *zap.Logger

	busy atomic.Bool
}

func NewRunImport(reader SourceReader, decoder SpreadsheetDecoder, importer ImportAccounts, cfg RunImportConfig, logger *zap.Logger) RunImport {
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &runImport{
		reader:    reader,
		decoder:   decoder,
		importer:  importer,
		validator: NewRecordValidator(),
		cfg:       cfg,
		logger:    logger,
	}
}

func (uc *runImport) Busy() bool {
	return uc.busy.Load()
}

// Execute reads, parses and imports one file. Once started a run is not
// cancellable: the caller's cancellation is dropped before the first read.
func (uc *runImport) Execute(ctx context.Context, in RunImportInput) (RunImportOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	format, ok := domain.FormatFromPath(sourcePath)
	if sourcePath == "" || !ok {
		return RunImportOutput{}, ErrInvalidImportSource
	}

	if !uc.busy.CompareAndSwap(false, true) {
		return RunImportOutput{}, ErrImportInProgress
	}
	defer uc.busy.Store(false)

	ctx = context.WithoutCancel(ctx)

	if uc.cfg.Guard != nil {
		release, acquired, err := uc.cfg.Guard.TryAcquire(ctx)
		if err != nil {
			return RunImportOutput{}, fmt.Errorf("%w: %v", ErrAcquireImportGuard, err)
		}
		if !acquired {
			return RunImportOutput{}, ErrImportInProgress
		}
		defer release()
	}

	logger := uc.logger.With(zap.String("source", sourcePath), zap.String("format", string(format)))

	text, err := uc.readText(ctx, sourcePath, format)
	if err != nil {
		logger.Error("read import source failed", zap.Error(err))
		return RunImportOutput{}, err
	}

	parsed := domain.ParseRecords(text, format)
	records := uc.validator.Keep(parsed)
	logger.Info("import source parsed", zap.Int("rows", len(parsed)), zap.Int("valid", len(records)))

	summary := uc.importer.Execute(ctx, records)

	return RunImportOutput{
		Summary: summary,
		Report:  summary.Report(),
	}, nil
}

func (uc *runImport) readText(ctx context.Context, sourcePath string, format domain.Format) (string, error) {
	if format == domain.FormatCSV {
		text, err := uc.reader.ReadText(ctx, sourcePath, uc.cfg.Encoding)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadImportSource, err)
		}
		return text, nil
	}

	data, err := uc.reader.ReadBytes(ctx, sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadImportSource, err)
	}

	text, err := uc.decoder.FirstSheetCSV(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeImportSource, err)
	}
	return text, nil
}

// PickAndRun asks the picker for a file and runs the import. A cancelled pick
// returns ErrSelectionCancelled untouched so callers can stay silent.
func PickAndRun(ctx context.Context, picker FilePicker, run RunImport) (RunImportOutput, error) {
	sourcePath, err := picker.Pick(ctx)
	if err != nil {
		return RunImportOutput{}, err
	}
	return run.Execute(ctx, RunImportInput{SourcePath: sourcePath})
}
