package intake

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/carbot/core/logger"
	"github.com/m3rciful/carbot/core/telegram/state"
	"github.com/m3rciful/carbot/internal/domain"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type fakeRegistrar struct {
	calls []int64
	err   error
}

func (f *fakeRegistrar) Register(_ context.Context, tgID int64, _ string) error {
	f.calls = append(f.calls, tgID)
	return f.err
}

type fakeNotifier struct {
	leads []domain.Lead
}

func (f *fakeNotifier) Notify(_ context.Context, lead domain.Lead) {
	f.leads = append(f.leads, lead)
}

type fixture struct {
	machine  *Machine
	sessions state.Manager
	users    *fakeRegistrar
	notifier *fakeNotifier
}

func newFixture(opts Options) *fixture {
	if opts.Sleep == nil {
		opts.Sleep = func(time.Duration) {}
	}
	sessions := state.NewMemoryManager()
	users := &fakeRegistrar{}
	notifier := &fakeNotifier{}
	return &fixture{
		machine:  New(sessions, users, notifier, opts),
		sessions: sessions,
		users:    users,
		notifier: notifier,
	}
}

// walk drives the flow up to the media stage with a filled draft.
func (f *fixture) walk(t *testing.T, userID int64, payload string) {
	t.Helper()
	ctx := context.Background()

	f.machine.Start(ctx, userID, "ivan")
	if _, ok := f.machine.ChooseAction(ctx, userID, payload); !ok {
		t.Fatalf("ChooseAction(%q) rejected", payload)
	}
	f.machine.Text(ctx, userID, "Иван")
	f.machine.Text(ctx, userID, "+79123456789")
	f.machine.Text(ctx, userID, "Toyota Camry 2015")

	if got := f.sessions.GetState(userID); got != StateAwaitingMedia {
		t.Fatalf("state after walk = %q, want %q", got, StateAwaitingMedia)
	}
}

func TestFullFlowSell(t *testing.T) {
	f := newFixture(Options{ChannelURL: "https://t.me/example"})
	ctx := context.Background()
	const userID int64 = 42

	reply := f.machine.Start(ctx, userID, "ivan")
	if reply.Text != textGreeting || reply.Keyboard != KeyboardActions {
		t.Fatalf("Start reply = %+v", reply)
	}
	if len(f.users.calls) != 1 || f.users.calls[0] != userID {
		t.Fatalf("registrar calls = %v", f.users.calls)
	}

	reply, ok := f.machine.ChooseAction(ctx, userID, "sell")
	if !ok || !reply.Edit || reply.Text != textAskNameSell {
		t.Fatalf("ChooseAction reply = %+v ok=%v", reply, ok)
	}

	reply = f.machine.Text(ctx, userID, "Иван")
	if reply.Text != textAskPhone || reply.Keyboard != KeyboardContact {
		t.Fatalf("name reply = %+v", reply)
	}

	reply = f.machine.Text(ctx, userID, "+79123456789")
	if reply.Keyboard != KeyboardRemove || !strings.Contains(reply.Text, "Иван") {
		t.Fatalf("phone reply = %+v", reply)
	}

	reply = f.machine.Text(ctx, userID, "Toyota Camry 2015")
	if reply.Text != textAskMedia {
		t.Fatalf("request reply = %+v", reply)
	}

	reply = f.machine.Media(ctx, userID, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")
	if reply.Text != textMediaDecision || reply.Keyboard != KeyboardDecision {
		t.Fatalf("media reply = %+v", reply)
	}

	reply, ok = f.machine.Decide(ctx, userID, "send")
	if !ok || !reply.Edit {
		t.Fatalf("Decide reply = %+v ok=%v", reply, ok)
	}
	if !strings.Contains(reply.Text, "https://t.me/example") {
		t.Fatalf("farewell lacks channel link: %q", reply.Text)
	}

	if len(f.notifier.leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(f.notifier.leads))
	}
	lead := f.notifier.leads[0]
	if lead.UserID != userID || lead.Username != "ivan" {
		t.Errorf("lead identity = %d/%q", lead.UserID, lead.Username)
	}
	if lead.Action != domain.ActionSell || lead.Name != "Иван" || lead.Phone != "+79123456789" {
		t.Errorf("lead fields = %+v", lead)
	}
	if lead.Request != "Toyota Camry 2015" || lead.Caption != domain.CaptionNone {
		t.Errorf("lead request/caption = %q/%q", lead.Request, lead.Caption)
	}
	if len(lead.Media) != 1 || lead.Media[0].FileID != "f1" {
		t.Errorf("lead media = %+v", lead.Media)
	}
	if lead.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("lead id not assigned")
	}

	if f.sessions.HasState(userID) {
		t.Errorf("state after finalize = %q, want idle", f.sessions.GetState(userID))
	}

	// A repeated press of the already-consumed keyboard must not resend.
	if _, ok := f.machine.Decide(ctx, userID, "send"); ok {
		t.Error("second send accepted after finalize")
	}
	if len(f.notifier.leads) != 1 {
		t.Errorf("leads after repeat = %d, want 1", len(f.notifier.leads))
	}
}

func TestRegistrarFailureDoesNotBlockFlow(t *testing.T) {
	f := newFixture(Options{})
	f.users.err = errors.New("db down")

	reply := f.machine.Start(context.Background(), 7, "ivan")
	if reply.Text != textGreeting {
		t.Fatalf("Start reply = %+v", reply)
	}
	if got := f.sessions.GetState(7); got != StateAwaitingAction {
		t.Fatalf("state = %q, want %q", got, StateAwaitingAction)
	}
}

func TestChooseActionStaleOrUnknown(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	// No conversation in progress.
	if _, ok := f.machine.ChooseAction(ctx, 7, "sell"); ok {
		t.Error("stale press accepted")
	}

	f.machine.Start(ctx, 7, "ivan")
	if _, ok := f.machine.ChooseAction(ctx, 7, "fly"); ok {
		t.Error("unknown payload accepted")
	}
	if got := f.sessions.GetState(7); got != StateAwaitingAction {
		t.Errorf("state = %q, want %q", got, StateAwaitingAction)
	}

	// The historical callback payload for the buy branch.
	reply, ok := f.machine.ChooseAction(ctx, 7, "bay")
	if !ok || reply.Text != textAskNameBuy {
		t.Errorf("legacy payload reply = %+v ok=%v", reply, ok)
	}
}

func TestInvalidPhoneKeepsStage(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	f.machine.Start(ctx, 7, "ivan")
	f.machine.ChooseAction(ctx, 7, "buy")
	f.machine.Text(ctx, 7, "Пётр")

	reply := f.machine.Text(ctx, 7, "not a number")
	if reply.Text != textBadPhone {
		t.Fatalf("reply = %+v", reply)
	}
	if got := f.sessions.GetState(7); got != StateAwaitingPhone {
		t.Errorf("state = %q, want %q", got, StateAwaitingPhone)
	}
	if f.machine.draft(7).Phone != "" {
		t.Errorf("draft phone = %q, want empty", f.machine.draft(7).Phone)
	}

	reply = f.machine.Text(ctx, 7, "89123456789")
	if !strings.Contains(reply.Text, "Пётр") {
		t.Fatalf("retry not accepted: %+v", reply)
	}
}

func TestContactBypassesValidation(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	f.machine.Start(ctx, 7, "ivan")
	f.machine.ChooseAction(ctx, 7, "sell")
	f.machine.Text(ctx, 7, "Иван")

	reply := f.machine.Contact(ctx, 7, "+49 171 000000")
	if reply.Empty() {
		t.Fatal("contact rejected")
	}
	if got := f.machine.draft(7).Phone; got != "+49 171 000000" {
		t.Errorf("draft phone = %q", got)
	}
	if got := f.sessions.GetState(7); got != StateAwaitingRequest {
		t.Errorf("state = %q, want %q", got, StateAwaitingRequest)
	}

	// Outside the phone stage a shared contact is a no-op.
	if reply := f.machine.Contact(ctx, 7, "+79123456789"); !reply.Empty() {
		t.Errorf("contact out of stage produced %+v", reply)
	}
}

func TestTextDuringMediaStage(t *testing.T) {
	f := newFixture(Options{})
	f.walk(t, 7, "sell")
	f.machine.Media(context.Background(), 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")

	reply := f.machine.Text(context.Background(), 7, "вот ещё текст")
	if reply.Text != textMediaOnly {
		t.Fatalf("reply = %+v", reply)
	}
	draft := f.machine.draft(7)
	if len(draft.Media) != 1 || draft.BatchCount != 1 {
		t.Errorf("draft mutated: media=%d batch=%d", len(draft.Media), draft.BatchCount)
	}
}

func TestMediaBatchPromptOnce(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	f.walk(t, 7, "sell")

	first := f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")
	if first.Keyboard != KeyboardDecision {
		t.Fatalf("first item reply = %+v", first)
	}
	second := f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f2"}, "")
	if !second.Empty() {
		t.Fatalf("burst item reply = %+v", second)
	}
	if got := len(f.machine.draft(7).Media); got != 2 {
		t.Errorf("media count = %d, want 2", got)
	}
}

func TestAddMorePreservesMedia(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	f.walk(t, 7, "buy")

	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")
	reply, ok := f.machine.Decide(ctx, 7, "add")
	if !ok || reply.Text != textAskMoreMedia || !reply.Edit {
		t.Fatalf("add reply = %+v ok=%v", reply, ok)
	}

	// A fresh batch prompts the decision again.
	reply = f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaVideo, FileID: "f2"}, "")
	if reply.Keyboard != KeyboardDecision {
		t.Fatalf("second batch reply = %+v", reply)
	}
	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaDocument, FileID: "f3"}, "")

	if _, ok := f.machine.Decide(ctx, 7, "send"); !ok {
		t.Fatal("send rejected")
	}
	lead := f.notifier.leads[0]
	if len(lead.Media) != 3 {
		t.Fatalf("lead media = %d, want 3", len(lead.Media))
	}
	want := []string{"f1", "f2", "f3"}
	for i, ref := range lead.Media {
		if ref.FileID != want[i] {
			t.Errorf("media[%d] = %q, want %q", i, ref.FileID, want[i])
		}
	}
}

func TestCaptionLastWriteWins(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	f.walk(t, 7, "sell")

	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "битый бампер")
	f.machine.Decide(ctx, 7, "add")
	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f2"}, "")
	if got := f.machine.draft(7).Caption; got != domain.CaptionNone {
		t.Errorf("caption = %q, want sentinel", got)
	}
	f.machine.Decide(ctx, 7, "add")
	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f3"}, "салон")

	f.machine.Decide(ctx, 7, "send")
	if got := f.notifier.leads[0].Caption; got != "салон" {
		t.Errorf("lead caption = %q, want %q", got, "салон")
	}
}

func TestDecideStaleOrUnknown(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	if _, ok := f.machine.Decide(ctx, 7, "send"); ok {
		t.Error("stale decision accepted")
	}

	f.walk(t, 7, "sell")
	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")
	if _, ok := f.machine.Decide(ctx, 7, "discard"); ok {
		t.Error("unknown decision accepted")
	}
	if len(f.notifier.leads) != 0 {
		t.Errorf("leads = %d, want 0", len(f.notifier.leads))
	}
}

func TestMediaOutOfStageIgnored(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	f.machine.Start(ctx, 7, "ivan")
	reply := f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")
	if !reply.Empty() {
		t.Fatalf("reply = %+v", reply)
	}
	if got := len(f.machine.draft(7).Media); got != 0 {
		t.Errorf("media count = %d, want 0", got)
	}
}

func TestMediaSettleDelayBounded(t *testing.T) {
	var slept []time.Duration
	f := newFixture(Options{
		MediaSettle: 300 * time.Millisecond,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	})
	ctx := context.Background()
	f.walk(t, 7, "sell")

	for i := 0; i < 20; i++ {
		f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f"}, "")
	}
	if len(slept) != 20 {
		t.Fatalf("sleep calls = %d, want 20", len(slept))
	}
	for _, d := range slept {
		if d < 0 || d >= 300*time.Millisecond {
			t.Errorf("settle delay %v out of range", d)
		}
	}
}

func TestRestartResetsDraft(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	f.walk(t, 7, "sell")
	f.machine.Media(ctx, 7, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"}, "")

	f.machine.Start(ctx, 7, "ivan")
	draft := f.machine.draft(7)
	if draft.Name != "" || draft.Phone != "" || len(draft.Media) != 0 {
		t.Errorf("draft not reset: %+v", draft)
	}
	if got := f.sessions.GetState(7); got != StateAwaitingAction {
		t.Errorf("state = %q, want %q", got, StateAwaitingAction)
	}
}
