package intent_test

import (
	"testing"

	"github.com/sathilabs/go-sathi/pkg/intent"
)

func TestClassify(t *testing.T) {
	c := intent.NewClassifier()

	tests := []struct {
		text string
		want intent.Kind
	}{
		{"", intent.None},
		{"   ", intent.None},
		{"what's the date", intent.Date},
		{"What Is The Date Today", intent.Date},
		{"today's date", intent.Date},
		{"date please", intent.Date},
		{"what day of the month is it", intent.Date},
		{"what's the time", intent.Time},
		{"can you tell me what time it is", intent.Time},
		{"check the time", intent.Time},
		{"what day is it", intent.Day},
		{"is it tuesday", intent.Day},
		{"tell me about this month", intent.Calendar},
		{"how many days in this month", intent.Calendar},
		{"what month is it", intent.Calendar},
		{"please remind me to take my pills", intent.None},
		{"how are you doing", intent.None},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := intent.NewClassifier()

	// Mixed queries resolve to Date, the most specific group.
	if got := c.Classify("what date and time is it"); got != intent.Date {
		t.Errorf("Classify mixed query = %v, want date", got)
	}
}

func TestClassifyKeywordFallback(t *testing.T) {
	c := intent.NewClassifier()

	t.Run("date words", func(t *testing.T) {
		if got := c.Classify("anything about today really"); got != intent.Date {
			t.Errorf("got %v, want date", got)
		}
	})

	t.Run("time words", func(t *testing.T) {
		if got := c.Classify("my clock might be wrong"); got != intent.Time {
			t.Errorf("got %v, want time", got)
		}
	})
}

func TestClassifyCustomTable(t *testing.T) {
	c := intent.NewClassifierFromRules(nil, []intent.Keywords{
		{Kind: intent.Time, Words: []string{"tick"}},
	})

	if got := c.Classify("tick tock"); got != intent.Time {
		t.Errorf("got %v, want time", got)
	}
	if got := c.Classify("what's the date"); got != intent.None {
		t.Errorf("got %v, want none with empty rule table", got)
	}
}
