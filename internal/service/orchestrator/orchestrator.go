// Package orchestrator drives the remote operations a user can trigger and
// routes every outcome to a Presenter.
//
// At most one remote operation is outstanding at a time. While one runs the
// phase is Processing and the presenter has been told to disable its triggers;
// callers that bypass a UI get ErrBusy instead.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xprabhudayal/genai/internal/models"
	"github.com/xprabhudayal/genai/internal/utils/validator"
	"github.com/xprabhudayal/genai/pkg/logger"
)

// Presenter is the display surface the orchestrator reports to.
type Presenter interface {
	SetProcessing(on bool)
	RenderResult(result models.Result)
	RenderNotification(n models.Notification)
}

// Service is the remote document simplification service.
type Service interface {
	Upload(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error)
	Simplify(ctx context.Context, text string) (*models.SimplifiedText, error)
	Explain(ctx context.Context, term string) (*models.TermExplanation, error)
	Summarize(ctx context.Context, text string) (*models.Summary, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
}

// TermExtractor produces candidate terms from text without side effects.
type TermExtractor interface {
	Extract(text string) models.TermSet
}

// User-facing messages.
const (
	MsgEmptySimplify     = "Please enter some text to simplify"
	MsgEmptyAnalyze      = "Please enter some text to analyze"
	MsgEmptySummarize    = "Please enter some text to summarize"
	MsgNoTerms           = "No legal terms found in the text"
	MsgUploadFailed      = "Error processing file"
	MsgUploadTransport   = "Error uploading file. Please try again."
	MsgSimplifyFailed    = "Error simplifying text"
	MsgSimplifyTransport = "Error processing text. Please try again."
	MsgExplainFailed     = "Error explaining term"
	MsgExplainTransport  = "Error explaining term. Please try again."
	MsgSummaryFailed     = "Error generating summary"
	MsgSummaryTransport  = "Error generating summary. Please try again."
)

type Orchestrator struct {
	service   Service
	validator *validator.DocumentValidator
	extractor TermExtractor
	presenter Presenter
	logger    logger.Logger

	mu           sync.Mutex
	phase        models.Phase
	lastDocument *models.DocumentResult
}

func New(
	service Service,
	v *validator.DocumentValidator,
	extractor TermExtractor,
	presenter Presenter,
	log logger.Logger,
) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	if v == nil {
		v = validator.NewDocumentValidator(log, nil)
	}
	return &Orchestrator{
		service:   service,
		validator: v,
		extractor: extractor,
		presenter: presenter,
		logger:    log.Named("orchestrator"),
		phase:     models.PhaseIdle,
	}
}

// Phase reports whether an operation is outstanding.
func (o *Orchestrator) Phase() models.Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// LastDocument returns the most recent successful upload result, or nil.
func (o *Orchestrator) LastDocument() *models.DocumentResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastDocument == nil {
		return nil
	}
	doc := *o.lastDocument
	return &doc
}

// SubmitDocument validates req locally and uploads it.
func (o *Orchestrator) SubmitDocument(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error) {
	if err := o.validator.ValidateUpload(req); err != nil {
		o.notifyValidation(err)
		return nil, err
	}

	var doc *models.DocumentResult
	err := o.dispatch(ctx, "upload", MsgUploadFailed, MsgUploadTransport, func(ctx context.Context) (models.Result, error) {
		res, err := o.service.Upload(ctx, req)
		if err != nil {
			return nil, err
		}
		doc = res
		return res, nil
	}, func() {
		if doc == nil {
			return
		}
		o.mu.Lock()
		snapshot := *doc
		o.lastDocument = &snapshot
		o.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SubmitTextForSimplification sends trimmed text to the simplifier.
func (o *Orchestrator) SubmitTextForSimplification(ctx context.Context, text string) (*models.SimplifiedText, error) {
	trimmed, err := o.validator.ValidateText(text, MsgEmptySimplify)
	if err != nil {
		o.notifyValidation(err)
		return nil, err
	}

	var out *models.SimplifiedText
	err = o.dispatch(ctx, "simplify", MsgSimplifyFailed, MsgSimplifyTransport, func(ctx context.Context) (models.Result, error) {
		res, err := o.service.Simplify(ctx, trimmed)
		if err != nil {
			return nil, err
		}
		out = res
		return res, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summarize sends trimmed text to the summarizer.
func (o *Orchestrator) Summarize(ctx context.Context, text string) (*models.Summary, error) {
	trimmed, err := o.validator.ValidateText(text, MsgEmptySummarize)
	if err != nil {
		o.notifyValidation(err)
		return nil, err
	}

	var out *models.Summary
	err = o.dispatch(ctx, "summarize", MsgSummaryFailed, MsgSummaryTransport, func(ctx context.Context) (models.Result, error) {
		res, err := o.service.Summarize(ctx, trimmed)
		if err != nil {
			return nil, err
		}
		out = res
		return res, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequestTermExplanation asks the server to explain term. The term is sent
// as given; the server rejects nonsense.
func (o *Orchestrator) RequestTermExplanation(ctx context.Context, term string) (*models.TermExplanation, error) {
	var out *models.TermExplanation
	err := o.dispatch(ctx, "explain", MsgExplainFailed, MsgExplainTransport, func(ctx context.Context) (models.Result, error) {
		res, err := o.service.Explain(ctx, term)
		if err != nil {
			return nil, err
		}
		out = res
		return res, nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExplainTerms scans text locally and offers the candidates for selection.
// Finding nothing is reported as information and is not an error.
func (o *Orchestrator) ExplainTerms(text string) (models.TermSet, error) {
	return o.ExplainTermsWith(o.extractor, text)
}

// ExplainTermsWith is ExplainTerms with a caller-chosen extractor.
func (o *Orchestrator) ExplainTermsWith(extractor TermExtractor, text string) (models.TermSet, error) {
	trimmed, err := o.validator.ValidateText(text, MsgEmptyAnalyze)
	if err != nil {
		o.notifyValidation(err)
		return nil, err
	}

	found := extractor.Extract(trimmed)
	if len(found) == 0 {
		o.presenter.RenderNotification(models.Notification{Level: models.LevelInfo, Message: MsgNoTerms})
		return found, nil
	}

	o.logger.Debug("Terms extracted", logger.Strings("terms", found))
	o.presenter.RenderResult(found)
	return found, nil
}

// Health checks the upstream service. It does not change the phase.
func (o *Orchestrator) Health(ctx context.Context) (*models.HealthStatus, error) {
	status, err := o.service.Health(ctx)
	if err != nil {
		o.logger.Warn("Health check failed", logger.Error(err))
		return nil, fmt.Errorf("failed to check service health: %w", err)
	}
	return status, nil
}

// dispatch runs one remote call under the phase guard. The phase is back to
// Idle before the outcome reaches the presenter, on every path. onSuccess runs
// after the phase is cleared and before the result is rendered.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	op, remoteFallback, transportMessage string,
	call func(context.Context) (models.Result, error),
	onSuccess func(),
) error {
	if err := o.begin(); err != nil {
		o.logger.Warn("Operation rejected while busy", logger.String("operation", op))
		return err
	}

	id := uuid.New().String()
	ctx = logger.WithOperationID(ctx, id)
	log := logger.FromContext(ctx, o.logger).With(logger.String("operation", op))
	log.Info("Operation started")

	start := time.Now()
	result, err := o.await(ctx, call)

	if err != nil {
		var rerr *models.RemoteError
		if errors.As(err, &rerr) {
			log.Warn("Operation rejected by server",
				logger.Duration("elapsed", time.Since(start)),
				logger.String("serverMessage", rerr.Message),
			)
		} else {
			log.Error("Operation failed",
				logger.Duration("elapsed", time.Since(start)),
				logger.Error(err),
			)
		}
		o.presenter.RenderNotification(models.Notification{
			Level:   models.LevelError,
			Message: models.UserMessage(err, remoteFallback, transportMessage),
		})
		return err
	}

	log.Info("Operation completed", logger.Duration("elapsed", time.Since(start)))
	if onSuccess != nil {
		onSuccess()
	}
	o.presenter.RenderResult(result)
	return nil
}

// await resolves call and always returns the phase to Idle, even if call panics.
func (o *Orchestrator) await(ctx context.Context, call func(context.Context) (models.Result, error)) (models.Result, error) {
	defer o.finish()
	return call(ctx)
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	if o.phase == models.PhaseProcessing {
		o.mu.Unlock()
		return models.ErrBusy
	}
	o.phase = models.PhaseProcessing
	o.mu.Unlock()

	o.presenter.SetProcessing(true)
	return nil
}

// finish re-enables the presenter while the phase still reads Processing, so
// the next begin cannot run SetProcessing(true) ahead of this SetProcessing(false).
func (o *Orchestrator) finish() {
	defer func() {
		o.mu.Lock()
		o.phase = models.PhaseIdle
		o.mu.Unlock()
	}()

	o.presenter.SetProcessing(false)
}

func (o *Orchestrator) notifyValidation(err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	level := verr.Level
	if level == "" {
		level = models.LevelError
	}
	o.logger.Info("Validation failed",
		logger.String("code", verr.Code),
		logger.String("field", verr.Field),
	)
	o.presenter.RenderNotification(models.Notification{Level: level, Message: verr.Message})
}
