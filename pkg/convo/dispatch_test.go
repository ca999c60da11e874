package convo_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sathilabs/go-sathi/pkg/convo"
	"github.com/sathilabs/go-sathi/pkg/responder"
)

// fixedNow pins the dispatcher clock to Saturday, February 21st, 2026, 3:04pm.
func fixedNow() time.Time {
	return time.Date(2026, time.February, 21, 15, 4, 0, 0, time.UTC)
}

func TestDispatchDate(t *testing.T) {
	d := convo.NewDispatcher(&responder.Mock{}, convo.WithClock(fixedNow))

	got := d.Dispatch(context.Background(), "what's the date today")
	for _, want := range []string{"Saturday", "21st", "February", "2026"} {
		if !strings.Contains(got.Spoken, want) {
			t.Errorf("spoken %q missing %q", got.Spoken, want)
		}
	}
}

func TestDispatchTime(t *testing.T) {
	d := convo.NewDispatcher(&responder.Mock{}, convo.WithClock(fixedNow))

	got := d.Dispatch(context.Background(), "what's the time")
	if got.Spoken != "It's 3 oh 4 pm" {
		t.Errorf("spoken = %q", got.Spoken)
	}
}

func TestDispatchDay(t *testing.T) {
	d := convo.NewDispatcher(&responder.Mock{}, convo.WithClock(fixedNow))

	got := d.Dispatch(context.Background(), "what day is it")
	if got.Spoken != "Today is Saturday" {
		t.Errorf("spoken = %q", got.Spoken)
	}
}

func TestDispatchCalendar(t *testing.T) {
	d := convo.NewDispatcher(&responder.Mock{}, convo.WithClock(fixedNow))

	got := d.Dispatch(context.Background(), "tell me about this month")
	if !strings.Contains(got.Spoken, "28 days") {
		t.Errorf("spoken %q missing day count", got.Spoken)
	}
}

func TestDispatchForwardsToResponder(t *testing.T) {
	mock := &responder.Mock{
		RespondFunc: func(ctx context.Context, text string) (string, error) {
			return "You should rest a little and drink some water.", nil
		},
	}
	d := convo.NewDispatcher(mock, convo.WithClock(fixedNow))

	got := d.Dispatch(context.Background(), "I feel tired")
	if got.Spoken != "You should rest a little and drink some water." {
		t.Errorf("spoken = %q", got.Spoken)
	}
	if got.Display != got.Spoken {
		t.Errorf("display = %q, want same as spoken", got.Display)
	}
	if calls := mock.Calls(); len(calls) != 1 || calls[0] != "I feel tired" {
		t.Errorf("responder calls = %v", calls)
	}
}

func TestDispatchResponderFailure(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		mock := &responder.Mock{
			RespondFunc: func(ctx context.Context, text string) (string, error) {
				return "", errors.New("backend unreachable")
			},
		}
		d := convo.NewDispatcher(mock)

		if got := d.Dispatch(context.Background(), "hello there"); got != convo.Apology {
			t.Errorf("got %+v, want apology", got)
		}
	})

	t.Run("empty reply", func(t *testing.T) {
		mock := &responder.Mock{
			RespondFunc: func(ctx context.Context, text string) (string, error) {
				return "   ", nil
			},
		}
		d := convo.NewDispatcher(mock)

		if got := d.Dispatch(context.Background(), "hello there"); got != convo.Apology {
			t.Errorf("got %+v, want apology", got)
		}
	})

	t.Run("offline responder", func(t *testing.T) {
		d := convo.NewDispatcher(responder.Offline{})

		if got := d.Dispatch(context.Background(), "hello there"); got != convo.Apology {
			t.Errorf("got %+v, want apology", got)
		}
	})
}
