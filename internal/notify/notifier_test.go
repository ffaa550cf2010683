package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carbot/core/logger"
	"github.com/m3rciful/carbot/internal/domain"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type sentCall struct {
	to   tele.Recipient
	what interface{}
}

// fakeSender records every Send and fails the ones reject approves.
type fakeSender struct {
	sent   []sentCall
	reject func(to tele.Recipient, what interface{}) error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.sent = append(f.sent, sentCall{to: to, what: what})
	if f.reject != nil {
		if err := f.reject(to, what); err != nil {
			return nil, err
		}
	}
	return &tele.Message{}, nil
}

func testLead(action domain.Action, media ...domain.MediaRef) domain.Lead {
	return domain.Lead{
		ID:       uuid.New(),
		UserID:   42,
		Username: "ivan",
		Action:   action,
		Name:     "Иван",
		Phone:    "+79123456789",
		Request:  "Toyota Camry 2015",
		Caption:  domain.CaptionNone,
		Media:    media,
	}
}

func TestNotifyFansOutToAllAdmins(t *testing.T) {
	sender := &fakeSender{}
	n := New([]int64{1, 2, 3})
	n.SetSender(sender)

	lead := testLead(domain.ActionSell, domain.MediaRef{Kind: domain.MediaPhoto, FileID: "f1"})
	n.Notify(context.Background(), lead)

	// One photo and one summary per admin.
	if len(sender.sent) != 6 {
		t.Fatalf("sends = %d, want 6", len(sender.sent))
	}
	perAdmin := map[tele.Recipient]int{}
	for _, call := range sender.sent {
		perAdmin[call.to]++
	}
	for _, admin := range []int64{1, 2, 3} {
		if got := perAdmin[tele.ChatID(admin)]; got != 2 {
			t.Errorf("admin %d got %d sends, want 2", admin, got)
		}
	}
}

func TestNotifyRecipientFailureIsolated(t *testing.T) {
	sender := &fakeSender{
		reject: func(to tele.Recipient, _ interface{}) error {
			if to == tele.ChatID(2) {
				return errors.New("forbidden: bot was blocked by the user")
			}
			return nil
		},
	}
	n := New([]int64{1, 2, 3})
	n.SetSender(sender)

	n.Notify(context.Background(), testLead(domain.ActionBuy))

	var ok1, ok3 int
	for _, call := range sender.sent {
		switch call.to {
		case tele.ChatID(1):
			ok1++
		case tele.ChatID(3):
			ok3++
		}
	}
	if ok1 != 1 || ok3 != 1 {
		t.Errorf("healthy admins got %d/%d sends, want 1/1", ok1, ok3)
	}
}

func TestNotifyRecipientPanicIsolated(t *testing.T) {
	sender := &fakeSender{
		reject: func(to tele.Recipient, _ interface{}) error {
			if to == tele.ChatID(1) {
				panic("transport gone")
			}
			return nil
		},
	}
	n := New([]int64{1, 2})
	n.SetSender(sender)

	n.Notify(context.Background(), testLead(domain.ActionSell))

	var ok2 int
	for _, call := range sender.sent {
		if call.to == tele.ChatID(2) {
			ok2++
		}
	}
	if ok2 != 1 {
		t.Errorf("admin 2 got %d sends, want 1", ok2)
	}
}

func TestNotifyWithoutSenderIsNoop(t *testing.T) {
	n := New([]int64{1})
	n.Notify(context.Background(), testLead(domain.ActionSell))

	sender := &fakeSender{}
	n.SetSender(sender)
	n.SetSender(nil)
	n.Notify(context.Background(), testLead(domain.ActionSell))
	if len(sender.sent) != 0 {
		t.Errorf("sends = %d, want 0", len(sender.sent))
	}
}

func TestSendMediaFallbackChain(t *testing.T) {
	sender := &fakeSender{
		reject: func(_ tele.Recipient, what interface{}) error {
			switch what.(type) {
			case *tele.Video, *tele.Photo:
				return errors.New("wrong file identifier")
			}
			return nil
		},
	}

	ref := domain.MediaRef{Kind: domain.MediaVideo, FileID: "f1"}
	if err := sendMedia(sender, tele.ChatID(1), ref, domain.CaptionNone); err != nil {
		t.Fatalf("sendMedia: %v", err)
	}

	var order []string
	for _, call := range sender.sent {
		order = append(order, fmt.Sprintf("%T", call.what))
	}
	want := []string{"*telebot.Video", "*telebot.Photo", "*telebot.Document"}
	if len(order) != len(want) {
		t.Fatalf("attempts = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("attempt[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestNotifyDropsExhaustedItemAndContinues(t *testing.T) {
	sender := &fakeSender{
		reject: func(_ tele.Recipient, what interface{}) error {
			switch m := what.(type) {
			case *tele.Photo:
				if m.FileID == "broken" {
					return errors.New("wrong file identifier")
				}
			case *tele.Video, *tele.Document:
				return errors.New("wrong file identifier")
			}
			return nil
		},
	}
	n := New([]int64{1})
	n.SetSender(sender)

	lead := testLead(domain.ActionSell,
		domain.MediaRef{Kind: domain.MediaPhoto, FileID: "broken"},
		domain.MediaRef{Kind: domain.MediaPhoto, FileID: "good"},
	)
	n.Notify(context.Background(), lead)

	var goodSent, summarySent bool
	for _, call := range sender.sent {
		switch m := call.what.(type) {
		case *tele.Photo:
			if m.FileID == "good" {
				goodSent = true
			}
		case string:
			summarySent = true
		}
	}
	if !goodSent {
		t.Error("surviving item not delivered")
	}
	if !summarySent {
		t.Error("summary not delivered after a dropped item")
	}
}

func TestMediaPayloadStripsSentinelCaption(t *testing.T) {
	photo, ok := mediaPayload(domain.MediaPhoto, "f1", domain.CaptionNone).(*tele.Photo)
	if !ok {
		t.Fatal("payload kind mismatch")
	}
	if photo.Caption != "" {
		t.Errorf("caption = %q, want empty", photo.Caption)
	}

	video, ok := mediaPayload(domain.MediaVideo, "f1", "салон").(*tele.Video)
	if !ok {
		t.Fatal("payload kind mismatch")
	}
	if video.Caption != "салон" || video.FileID != "f1" {
		t.Errorf("video payload = %+v", video)
	}
}

func TestSummary(t *testing.T) {
	lead := testLead(domain.ActionSell)
	got := Summary(lead)

	for _, part := range []string{
		"@ivan",
		"продажу автомобиля",
		"*Имя:* Иван",
		"*Телефон:* +79123456789",
		"*Запрос от пользователя:* Toyota Camry 2015",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("summary missing %q:\n%s", part, got)
		}
	}

	buy := testLead(domain.ActionBuy)
	if !strings.Contains(Summary(buy), "покупку автомобиля") {
		t.Error("buy intent not rendered")
	}
}
