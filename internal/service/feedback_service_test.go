package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/discovernortheast/internal/content"
)

func TestFeedbackSubmit(t *testing.T) {
	st := newTestStore(t)
	svc := NewFeedbackService(st)
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	entry, err := svc.Submit(context.Background(), FeedbackInput{
		Name:    "  Ananya  ",
		Email:   "ananya@example.com",
		Message: "<script>alert(1)</script>Loved Ziro " + strings.Repeat("!", 1200),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.Name != "Ananya" || entry.ID == "" || !entry.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if strings.Contains(entry.Message, "<script>") {
		t.Fatalf("markup not stripped: %q", entry.Message)
	}
	if n := len([]rune(entry.Message)); n != content.MaxFeedbackMessageLen {
		t.Fatalf("expected message truncated to %d runes, got %d", content.MaxFeedbackMessageLen, n)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].String("id") != entry.ID {
		t.Fatalf("unexpected feedback log %v", list)
	}
}

func TestFeedbackValidation(t *testing.T) {
	tests := []struct {
		name  string
		input FeedbackInput
		want  string
	}{
		{"missing name", FeedbackInput{Email: "a@b.c", Message: "hi"}, MsgAllFieldsRequired},
		{"blank message", FeedbackInput{Name: "A", Email: "a@b.c", Message: "   "}, MsgAllFieldsRequired},
		{"email without at", FeedbackInput{Name: "A", Email: "ab.c", Message: "hi"}, MsgInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			svc := NewFeedbackService(st)

			_, err := svc.Submit(context.Background(), tt.input)
			if !errors.Is(err, ErrValidation) || err.Error() != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}

			list, err := svc.List(context.Background())
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("rejected feedback must not be stored")
			}
		})
	}
}
