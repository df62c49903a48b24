package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"bugbot/internal/domain"
	"bugbot/internal/ports"
)

// Hand-written fakes for the ports this package depends on. Each fake records
// calls so tests can assert on interactions.

type sentMessage struct {
	channelID string
	content   string
}

type fakeGateway struct {
	mu         sync.Mutex
	eligible   bool
	dmChannel  string
	dmErr      error
	sendErr    error
	sent       []sentMessage
	transients []sentMessage
	deleted    []string
	reactions  []string
	nextID     int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{eligible: true, dmChannel: "dm-1"}
}

func (g *fakeGateway) SendMessage(_ context.Context, channelID, content string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.nextID++
	g.sent = append(g.sent, sentMessage{channelID, content})
	return "msg-" + strconv.Itoa(g.nextID), nil
}

func (g *fakeGateway) SendTransient(_ context.Context, channelID, content string, _ time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transients = append(g.transients, sentMessage{channelID, content})
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, _, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageID)
	return nil
}

func (g *fakeGateway) AddReaction(_ context.Context, _, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reactions = append(g.reactions, messageID+":"+emoji)
	return nil
}

func (g *fakeGateway) OpenDM(_ context.Context, _ string) (string, error) {
	if g.dmErr != nil {
		return "", g.dmErr
	}
	return g.dmChannel, nil
}

func (g *fakeGateway) IsEligible(_ context.Context, _ string) bool {
	return g.eligible
}

func (g *fakeGateway) sentMessages() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.sent...)
}

func (g *fakeGateway) transientMessages() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.transients...)
}

// fakeInterviewer resolves questions from scripted answers. Choice questions
// consume picks (matched by emoji); text questions consume texts in order.
type fakeInterviewer struct {
	mu          sync.Mutex
	picks       []string
	texts       []string
	attachments []string
	askErr      error

	choicePrompts []string
	textPrompts   []string
}

func (f *fakeInterviewer) AskChoice(ctx context.Context, _, _, prompt string, options []ports.ChoiceOption, _ time.Duration) error {
	f.mu.Lock()
	f.choicePrompts = append(f.choicePrompts, prompt)
	if f.askErr != nil {
		err := f.askErr
		f.mu.Unlock()
		return err
	}
	if len(f.picks) == 0 {
		f.mu.Unlock()
		return domain.ErrTimeout
	}
	pick := f.picks[0]
	f.picks = f.picks[1:]
	f.mu.Unlock()

	for _, option := range options {
		if option.Emoji == pick {
			if option.Handler != nil {
				return option.Handler(ctx)
			}
			return nil
		}
	}
	return domain.ErrTimeout
}

func (f *fakeInterviewer) AskText(_ context.Context, _, _, prompt string, _ ports.Validator, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textPrompts = append(f.textPrompts, prompt)
	if f.askErr != nil {
		return "", f.askErr
	}
	if len(f.texts) == 0 {
		return "", domain.ErrTimeout
	}
	text := f.texts[0]
	f.texts = f.texts[1:]
	return text, nil
}

func (f *fakeInterviewer) AskAttachments(_ context.Context, _, _ string) ([]string, error) {
	return f.attachments, nil
}

// fakePipeline runs a scripted behavior per invocation
type fakePipeline struct {
	mu    sync.Mutex
	runs  []func(ctx context.Context) error
	calls int
}

func (f *fakePipeline) Run(ctx context.Context, _, _ string) error {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if call < len(f.runs) {
		return f.runs[call](ctx)
	}
	return nil
}

func (f *fakePipeline) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDiagnostics struct {
	mu     sync.Mutex
	errors []error
}

func (d *fakeDiagnostics) ReportError(_ context.Context, _ string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, err)
}

func (d *fakeDiagnostics) reported() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errors...)
}

// fakeDeliverer records the draft handed to it
type fakeDeliverer struct {
	mu     sync.Mutex
	draft  *domain.DraftReport
	dm     string
	err    error
	report *domain.Report
}

func (f *fakeDeliverer) Deliver(_ context.Context, draft *domain.DraftReport, dmChannelID string) (*domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = draft
	f.dm = dmChannelID
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &domain.Report{ID: 1}, nil
}

// fakePromptStore is an in-memory ports.PromptStore
type fakePromptStore struct {
	mu      sync.Mutex
	prompts map[string]domain.PromptMessage
}

func newFakePromptStore() *fakePromptStore {
	return &fakePromptStore{prompts: make(map[string]domain.PromptMessage)}
}

func promptKey(destination string, kind domain.PromptKind) string {
	return destination + "/" + string(kind)
}

func (s *fakePromptStore) GetPrompt(_ context.Context, destination string, kind domain.PromptKind) (*domain.PromptMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt, ok := s.prompts[promptKey(destination, kind)]
	if !ok {
		return nil, nil
	}
	return &prompt, nil
}

func (s *fakePromptStore) SetPrompt(_ context.Context, prompt domain.PromptMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[promptKey(prompt.Destination, prompt.Kind)] = prompt
	return nil
}

func (s *fakePromptStore) ClearPrompt(_ context.Context, destination string, kind domain.PromptKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prompts, promptKey(destination, kind))
	return nil
}

// fakeRefresher records refreshed destinations
type fakeRefresher struct {
	mu           sync.Mutex
	destinations []string
	err          error
}

func (f *fakeRefresher) Refresh(_ context.Context, destination string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destinations = append(f.destinations, destination)
	return f.err
}

// fakeRepo is an in-memory ports.ReportRepository
type fakeRepo struct {
	fakePromptStore
	mu          sync.Mutex
	nextID      int64
	reports     map[int64]*domain.Report
	attachments map[int64][]string
	createErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		fakePromptStore: fakePromptStore{prompts: make(map[string]domain.PromptMessage)},
		reports:         make(map[int64]*domain.Report),
		attachments:     make(map[int64][]string),
	}
}

func (r *fakeRepo) Create(_ context.Context, draft *domain.DraftReport) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	report := &domain.Report{
		ID:              r.nextID,
		Reporter:        draft.Reporter,
		Platform:        draft.Platform,
		PlatformVersion: draft.PlatformVersion,
		DeviceInfo:      draft.DeviceInfo,
		Branch:          draft.Branch,
		AppVersion:      draft.AppVersion,
		AppBuild:        draft.AppBuild,
		Title:           draft.Title,
		Actual:          draft.Actual,
		Steps:           draft.Steps,
		Expected:        draft.Expected,
		Additional:      draft.Additional,
		CreatedAt:       time.Now().UTC(),
	}
	r.reports[report.ID] = report
	return report, nil
}

func (r *fakeRepo) Attach(_ context.Context, reportID int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[reportID] = append(r.attachments[reportID], url)
	return nil
}

func (r *fakeRepo) MarkDelivered(_ context.Context, reportID int64, messageID, attachmentMessageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportID]
	if !ok {
		return domain.ErrReportNotFound
	}
	report.MessageID = messageID
	report.AttachmentMessageID = attachmentMessageID
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

func (r *fakeRepo) List(_ context.Context, _ int) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reports []domain.Report
	for _, report := range r.reports {
		reports = append(reports, *report)
	}
	return reports, nil
}

func (r *fakeRepo) Close() error { return nil }
