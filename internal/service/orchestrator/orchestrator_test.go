package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xprabhudayal/genai/internal/models"
	"github.com/xprabhudayal/genai/internal/terms"
	"github.com/xprabhudayal/genai/internal/utils/validator"
	"github.com/xprabhudayal/genai/pkg/logger"
)

type recordingPresenter struct {
	mu            sync.Mutex
	events        []string
	results       []models.Result
	notifications []models.Notification
	processing    bool
}

func (p *recordingPresenter) SetProcessing(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processing = on
	p.events = append(p.events, fmt.Sprintf("processing:%t", on))
}

func (p *recordingPresenter) RenderResult(result models.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, result)
	p.events = append(p.events, "result:"+string(result.Kind()))
}

func (p *recordingPresenter) RenderNotification(n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
	p.events = append(p.events, "notify:"+string(n.Level))
}

func (p *recordingPresenter) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.events...)
}

func (p *recordingPresenter) Processing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processing
}

type fakeService struct {
	mu    sync.Mutex
	calls map[string]int

	upload    func(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error)
	simplify  func(ctx context.Context, text string) (*models.SimplifiedText, error)
	explain   func(ctx context.Context, term string) (*models.TermExplanation, error)
	summarize func(ctx context.Context, text string) (*models.Summary, error)
}

func (f *fakeService) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeService) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeService) Upload(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error) {
	f.record("upload")
	return f.upload(ctx, req)
}

func (f *fakeService) Simplify(ctx context.Context, text string) (*models.SimplifiedText, error) {
	f.record("simplify")
	return f.simplify(ctx, text)
}

func (f *fakeService) Explain(ctx context.Context, term string) (*models.TermExplanation, error) {
	f.record("explain")
	return f.explain(ctx, term)
}

func (f *fakeService) Summarize(ctx context.Context, text string) (*models.Summary, error) {
	f.record("summarize")
	return f.summarize(ctx, text)
}

func (f *fakeService) Health(ctx context.Context) (*models.HealthStatus, error) {
	f.record("health")
	return &models.HealthStatus{Status: "healthy"}, nil
}

func newOrchestrator(svc *fakeService) (*Orchestrator, *recordingPresenter) {
	p := &recordingPresenter{}
	log := logger.NewTestLogger()
	return New(svc, validator.NewDocumentValidator(log, nil), terms.NewExtractor(), p, log), p
}

func TestSubmitDocument_Success(t *testing.T) {
	svc := &fakeService{upload: func(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error) {
		return &models.DocumentResult{Filename: "a.pdf", OriginalText: "X", Summary: "Y", SimplifiedText: "Z"}, nil
	}}
	o, p := newOrchestrator(svc)

	got, err := o.SubmitDocument(context.Background(), &models.UploadRequest{Filename: "a.pdf", MimeType: models.MimePDF, Size: 3, Data: []byte("pdf")})
	require.NoError(t, err)

	want := &models.DocumentResult{Filename: "a.pdf", OriginalText: "X", Summary: "Y", SimplifiedText: "Z"}
	assert.Equal(t, want, got)
	require.Len(t, p.results, 1)
	assert.Equal(t, want, p.results[0])
	assert.Equal(t, want, o.LastDocument())
	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.Equal(t, []string{"processing:true", "processing:false", "result:document"}, p.Events())
}

func TestSubmitDocument_ValidationNeverCallsServer(t *testing.T) {
	svc := &fakeService{}
	o, p := newOrchestrator(svc)

	cases := []*models.UploadRequest{
		{Filename: "a.png", MimeType: "image/png", Size: 10},
		{Filename: "a.doc", MimeType: "application/msword", Size: 10},
		{Filename: "big.pdf", MimeType: models.MimePDF, Size: models.MaxUploadSize + 1},
		{Filename: "huge.txt", MimeType: models.MimeTXT, Size: 50 * models.MaxUploadSize},
	}
	for _, req := range cases {
		_, err := o.SubmitDocument(context.Background(), req)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr, req.Filename)
	}

	assert.Equal(t, 0, svc.Total())
	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.Nil(t, o.LastDocument())
	for _, e := range p.Events() {
		assert.Equal(t, "notify:error", e)
	}
	assert.Equal(t, validator.MsgInvalidFileType, p.notifications[0].Message)
	assert.Equal(t, validator.MsgFileTooLarge, p.notifications[2].Message)
}

func TestSubmitDocument_RemoteFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &models.RemoteError{Operation: "upload", Message: "Invalid file type"}, "Invalid file type"},
		{"fallback", &models.RemoteError{Operation: "upload"}, MsgUploadFailed},
		{"transport", &models.TransportError{Operation: "upload", Err: errors.New("dial tcp: connection refused")}, MsgUploadTransport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{upload: func(ctx context.Context, req *models.UploadRequest) (*models.DocumentResult, error) {
				return nil, tc.err
			}}
			o, p := newOrchestrator(svc)

			_, err := o.SubmitDocument(context.Background(), &models.UploadRequest{MimeType: models.MimeTXT, Size: 1, Data: []byte("a")})
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, models.PhaseIdle, o.Phase())
			assert.Equal(t, []string{"processing:true", "processing:false", "notify:error"}, p.Events())
			assert.Equal(t, tc.want, p.notifications[0].Message)
			assert.NotContains(t, p.notifications[0].Message, "connection refused")
			assert.Nil(t, o.LastDocument())
		})
	}
}

func TestSubmitTextForSimplification(t *testing.T) {
	var sent string
	svc := &fakeService{simplify: func(ctx context.Context, text string) (*models.SimplifiedText, error) {
		sent = text
		return &models.SimplifiedText{Text: "simple"}, nil
	}}
	o, p := newOrchestrator(svc)

	got, err := o.SubmitTextForSimplification(context.Background(), "  The lessee shall...  ")
	require.NoError(t, err)
	assert.Equal(t, "simple", got.Text)
	assert.Equal(t, "The lessee shall...", sent)
	assert.Equal(t, []string{"processing:true", "processing:false", "result:simplified"}, p.Events())
}

func TestSubmitTextForSimplification_EmptyInput(t *testing.T) {
	svc := &fakeService{}
	o, p := newOrchestrator(svc)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := o.SubmitTextForSimplification(context.Background(), text)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
	}
	assert.Equal(t, 0, svc.Total())
	require.Len(t, p.notifications, 3)
	assert.Equal(t, models.Notification{Level: models.LevelWarning, Message: MsgEmptySimplify}, p.notifications[0])
}

func TestSubmitTextForSimplification_Failures(t *testing.T) {
	svc := &fakeService{simplify: func(ctx context.Context, text string) (*models.SimplifiedText, error) {
		return nil, &models.TransportError{Operation: "simplify", Err: errors.New("EOF")}
	}}
	o, p := newOrchestrator(svc)

	_, err := o.SubmitTextForSimplification(context.Background(), "text")
	var terr *models.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, MsgSimplifyTransport, p.notifications[0].Message)
}

func TestSummarize(t *testing.T) {
	svc := &fakeService{summarize: func(ctx context.Context, text string) (*models.Summary, error) {
		return nil, &models.RemoteError{Operation: "summarize"}
	}}
	o, p := newOrchestrator(svc)

	_, err := o.Summarize(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 0, svc.Calls("summarize"))
	assert.Equal(t, MsgEmptySummarize, p.notifications[0].Message)

	_, err = o.Summarize(context.Background(), "lease")
	require.Error(t, err)
	assert.Equal(t, MsgSummaryFailed, p.notifications[1].Message)

	svc.summarize = func(ctx context.Context, text string) (*models.Summary, error) {
		return &models.Summary{Text: "short"}, nil
	}
	got, err := o.Summarize(context.Background(), "lease")
	require.NoError(t, err)
	assert.Equal(t, "short", got.Text)
}

func TestRequestTermExplanation(t *testing.T) {
	svc := &fakeService{explain: func(ctx context.Context, term string) (*models.TermExplanation, error) {
		if term == "gibberish" {
			return nil, &models.RemoteError{Operation: "explain", Message: "Unknown term"}
		}
		return &models.TermExplanation{Term: term, Explanation: "a promise"}, nil
	}}
	o, p := newOrchestrator(svc)

	got, err := o.RequestTermExplanation(context.Background(), "covenant")
	require.NoError(t, err)
	assert.Equal(t, &models.TermExplanation{Term: "covenant", Explanation: "a promise"}, got)

	_, err = o.RequestTermExplanation(context.Background(), "gibberish")
	require.Error(t, err)
	assert.Equal(t, "Unknown term", p.notifications[0].Message)
	assert.Equal(t, 2, svc.Calls("explain"))
}

func TestExplainTerms(t *testing.T) {
	svc := &fakeService{}
	o, p := newOrchestrator(svc)

	found, err := o.ExplainTerms("Whereas the Party hereby agrees to the Agreement pursuant to Section 5, termination shall not exceed 10 days.")
	require.NoError(t, err)
	assert.Contains(t, found, "termination")
	assert.Equal(t, []string{"result:terms"}, p.Events())

	found, err = o.ExplainTerms("hi")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, models.Notification{Level: models.LevelInfo, Message: MsgNoTerms}, p.notifications[0])

	_, err = o.ExplainTerms("  ")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgEmptyAnalyze, p.notifications[1].Message)

	assert.Equal(t, 0, svc.Total())
	assert.Equal(t, models.PhaseIdle, o.Phase())
}

func TestConcurrentOperationRejectedWhileProcessing(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		explain: func(ctx context.Context, term string) (*models.TermExplanation, error) {
			close(entered)
			<-release
			return &models.TermExplanation{Term: term, Explanation: "ok"}, nil
		},
		simplify: func(ctx context.Context, text string) (*models.SimplifiedText, error) {
			return &models.SimplifiedText{Text: "ok"}, nil
		},
	}
	o, p := newOrchestrator(svc)

	done := make(chan error, 1)
	go func() {
		_, err := o.RequestTermExplanation(context.Background(), "party")
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first call never reached the service")
	}

	assert.Equal(t, models.PhaseProcessing, o.Phase())
	assert.True(t, p.Processing(), "trigger surface must be disabled while processing")

	_, err := o.RequestTermExplanation(context.Background(), "agreement")
	assert.ErrorIs(t, err, models.ErrBusy)
	_, err = o.SubmitTextForSimplification(context.Background(), "text")
	assert.ErrorIs(t, err, models.ErrBusy)
	_, err = o.SubmitDocument(context.Background(), &models.UploadRequest{MimeType: models.MimeTXT, Size: 1})
	assert.ErrorIs(t, err, models.ErrBusy)

	assert.Equal(t, 1, svc.Calls("explain"))
	assert.Equal(t, 0, svc.Calls("simplify"))
	assert.Equal(t, 0, svc.Calls("upload"))

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.False(t, p.Processing())
	assert.Equal(t, []string{"processing:true", "processing:false", "result:explanation"}, p.Events())

	_, err = o.SubmitTextForSimplification(context.Background(), "text")
	assert.NoError(t, err)
}

// stallingPresenter holds the first SetProcessing(false) until released.
type stallingPresenter struct {
	*recordingPresenter
	once     sync.Once
	clearing chan struct{}
	release  chan struct{}
}

func (p *stallingPresenter) SetProcessing(on bool) {
	if !on {
		p.once.Do(func() {
			close(p.clearing)
			<-p.release
		})
	}
	p.recordingPresenter.SetProcessing(on)
}

func TestSlowPresenterClearStillBlocksNextOperation(t *testing.T) {
	svc := &fakeService{
		simplify: func(ctx context.Context, text string) (*models.SimplifiedText, error) {
			return &models.SimplifiedText{Text: "plain " + text}, nil
		},
		explain: func(ctx context.Context, term string) (*models.TermExplanation, error) {
			return &models.TermExplanation{Term: term, Explanation: "a claim"}, nil
		},
	}
	p := &stallingPresenter{
		recordingPresenter: &recordingPresenter{},
		clearing:           make(chan struct{}),
		release:            make(chan struct{}),
	}
	log := logger.NewTestLogger()
	o := New(svc, validator.NewDocumentValidator(log, nil), terms.NewExtractor(), p, log)

	done := make(chan error, 1)
	go func() {
		_, err := o.SubmitTextForSimplification(context.Background(), "clause")
		done <- err
	}()

	select {
	case <-p.clearing:
	case <-time.After(2 * time.Second):
		t.Fatal("first operation never reached SetProcessing(false)")
	}

	_, err := o.RequestTermExplanation(context.Background(), "lien")
	assert.ErrorIs(t, err, models.ErrBusy)
	assert.Equal(t, 0, svc.Calls("explain"))

	close(p.release)
	require.NoError(t, <-done)
	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.False(t, p.Processing())

	_, err = o.RequestTermExplanation(context.Background(), "lien")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.False(t, p.Processing())
	assert.Equal(t, []string{
		"processing:true", "processing:false", "result:simplified",
		"processing:true", "processing:false", "result:explanation",
	}, p.Events())
}

func TestPanicInServiceStillClearsPhase(t *testing.T) {
	svc := &fakeService{simplify: func(ctx context.Context, text string) (*models.SimplifiedText, error) {
		panic("boom")
	}}
	o, p := newOrchestrator(svc)

	assert.Panics(t, func() {
		_, _ = o.SubmitTextForSimplification(context.Background(), "text")
	})
	assert.Equal(t, models.PhaseIdle, o.Phase())
	assert.False(t, p.Processing())
}

func TestHealthDoesNotTouchPhase(t *testing.T) {
	svc := &fakeService{}
	o, p := newOrchestrator(svc)

	status, err := o.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Empty(t, p.Events())
}
