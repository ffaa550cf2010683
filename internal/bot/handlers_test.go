package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carbot/internal/domain"
	"github.com/m3rciful/carbot/internal/intake"
)

func TestMediaRefFrom(t *testing.T) {
	cases := []struct {
		name string
		msg  *tele.Message
		want domain.MediaRef
		ok   bool
	}{
		{
			name: "photo",
			msg:  &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p1"}}},
			want: domain.MediaRef{Kind: domain.MediaPhoto, FileID: "p1"},
			ok:   true,
		},
		{
			name: "video",
			msg:  &tele.Message{Video: &tele.Video{File: tele.File{FileID: "v1"}}},
			want: domain.MediaRef{Kind: domain.MediaVideo, FileID: "v1"},
			ok:   true,
		},
		{
			name: "document",
			msg:  &tele.Message{Document: &tele.Document{File: tele.File{FileID: "d1"}}},
			want: domain.MediaRef{Kind: domain.MediaDocument, FileID: "d1"},
			ok:   true,
		},
		{
			name: "photo wins over document",
			msg: &tele.Message{
				Photo:    &tele.Photo{File: tele.File{FileID: "p1"}},
				Document: &tele.Document{File: tele.File{FileID: "d1"}},
			},
			want: domain.MediaRef{Kind: domain.MediaPhoto, FileID: "p1"},
			ok:   true,
		},
		{name: "text only", msg: &tele.Message{Text: "hi"}},
		{name: "nil message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := mediaRefFrom(tc.msg)
			if ok != tc.ok || got != tc.want {
				t.Errorf("mediaRefFrom = %+v ok=%v, want %+v ok=%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMarkupFor(t *testing.T) {
	if markupFor(intake.KeyboardNone) != nil {
		t.Error("no-keyboard reply produced markup")
	}

	actions := markupFor(intake.KeyboardActions)
	if actions == nil || len(actions.InlineKeyboard) != 2 {
		t.Fatalf("actions markup = %+v", actions)
	}

	contact := markupFor(intake.KeyboardContact)
	if contact == nil || len(contact.ReplyKeyboard) == 0 {
		t.Fatalf("contact markup = %+v", contact)
	}
	if !contact.ReplyKeyboard[0][0].Contact {
		t.Error("contact button does not request a contact")
	}

	remove := markupFor(intake.KeyboardRemove)
	if remove == nil || !remove.RemoveKeyboard {
		t.Fatalf("remove markup = %+v", remove)
	}

	decision := markupFor(intake.KeyboardDecision)
	if decision == nil || len(decision.InlineKeyboard) != 1 || len(decision.InlineKeyboard[0]) != 2 {
		t.Fatalf("decision markup = %+v", decision)
	}
}
