// Package intent maps an utterance to one of the deterministic query kinds
// the assistant can answer without a language model: date, time, day of week
// or calendar summary. Classification is total: unknown or empty input maps
// to None and the caller routes it to the conversational responder.
package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Kind is the classified purpose of an utterance.
type Kind int

const (
	// None means no deterministic intent matched.
	None Kind = iota
	Date
	Time
	Day
	Calendar
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Date:
		return "date"
	case Time:
		return "time"
	case Day:
		return "day"
	case Calendar:
		return "calendar"
	default:
		return "none"
	}
}

// Rule binds one regular expression template to an intent kind.
// Lower priority values are evaluated first; rules of the same kind share a
// priority so the table stays a straight precedence ordering.
type Rule struct {
	Kind     Kind
	Pattern  *regexp.Regexp
	Priority int
}

// Keywords is a fallback group: when no rule matches, the first group whose
// keyword occurs in the text wins, in the same precedence order as the rules.
type Keywords struct {
	Kind     Kind
	Words    []string
	Priority int
}

// Classifier evaluates a sorted rule table and keyword fallback.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	rules    []Rule
	keywords []Keywords
}

// NewClassifier returns a classifier with the built-in rule table.
func NewClassifier() *Classifier {
	return NewClassifierFromRules(DefaultRules(), DefaultKeywords())
}

// NewClassifierFromRules builds a classifier from explicit rule and fallback
// tables, sorted by priority. Callers own the tables; nothing is global.
func NewClassifierFromRules(rules []Rule, keywords []Keywords) *Classifier {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	kw := make([]Keywords, len(keywords))
	copy(kw, keywords)
	sort.SliceStable(kw, func(i, j int) bool { return kw[i].Priority < kw[j].Priority })

	return &Classifier{rules: sorted, keywords: kw}
}

// Classify maps text to an intent kind. It never panics and empty input
// yields None. Date has the highest precedence because its vocabulary
// ("day", "month") overlaps the other groups and it is the most specific.
func (c *Classifier) Classify(text string) Kind {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return None
	}

	for _, r := range c.rules {
		if r.Pattern.MatchString(text) {
			return r.Kind
		}
	}

	for _, g := range c.keywords {
		for _, w := range g.Words {
			if strings.Contains(text, w) {
				return g.Kind
			}
		}
	}

	return None
}

// Rule table precedence. Date outranks Time so that mixed queries like
// "what date and time is it" resolve to the more specific intent.
const (
	priorityDate = iota
	priorityTime
	priorityDay
	priorityCalendar
)

// DefaultRules returns the built-in intent rule table.
func DefaultRules() []Rule {
	var rules []Rule
	add := func(kind Kind, priority int, patterns ...string) {
		for _, p := range patterns {
			rules = append(rules, Rule{Kind: kind, Pattern: regexp.MustCompile(p), Priority: priority})
		}
	}

	add(Date, priorityDate,
		`what(?:'s| is) (?:the )?date(?:.*?today)?`,
		`today's date`,
		`tell me (?:the |today's )?date`,
		`(?:can you )?tell me (?:the )?date`,
		`what (?:is the )?date (?:today|now)`,
		`what day of the month is it`,
		`which date is (?:it|today)`,
		`(?:what|which) date (?:do we have|is it)`,
		`date please`,
		`give me the date`,
		`(?:what|which) date`,
		`date`,
	)
	add(Time, priorityTime,
		`what(?:'s| is) the time`,
		`tell me the time`,
		`current time`,
		`time now`,
		`what time (?:is it|do we have)`,
		`(?:can you )?tell me what time it is`,
		`do you know the time`,
		`check the time`,
	)
	add(Day, priorityDay,
		`what day is (?:it|today)`,
		`which day is (?:it|today)`,
		`tell me the day`,
		`(?:can you )?tell me what day it is`,
		`what day of the week is it`,
		`is it (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)`,
	)
	add(Calendar, priorityCalendar,
		`(?:read|tell) me this month's calendar`,
		`how many days (?:are )?(?:in|this) (?:this )?month`,
		`tell me about this month`,
		`what month is it`,
		`give me (?:the )?month(?:'s)? details`,
		`tell me about (?:the )?current month`,
		`how long is this month`,
	)

	return rules
}

// DefaultKeywords returns the built-in keyword fallback groups.
func DefaultKeywords() []Keywords {
	return []Keywords{
		{Kind: Date, Words: []string{"date", "today", "day", "month"}, Priority: priorityDate},
		{Kind: Time, Words: []string{"time", "clock", "hour"}, Priority: priorityTime},
	}
}
