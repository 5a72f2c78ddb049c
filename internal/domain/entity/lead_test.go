package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadStatus(t *testing.T) {
	cases := map[string]LeadStatus{
		"new":         LeadStatusNew,
		" Contacted ": LeadStatusContacted,
		"NEGOTIATION": LeadStatusNegotiation,
		"won":         LeadStatusWon,
		"converted":   LeadStatusWon,
		"LOST":        LeadStatusLost,
	}
	for in, want := range cases {
		got, ok := ParseLeadStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "QUALIFIED", "open"} {
		_, ok := ParseLeadStatus(bad)
		assert.False(t, ok, bad)
	}
	assert.True(t, LeadStatusWon.IsTerminal())
	assert.True(t, LeadStatusLost.IsTerminal())
	assert.False(t, LeadStatusNegotiation.IsTerminal())
}

func TestParseLeadSourceAndPriority(t *testing.T) {
	src, ok := ParseLeadSource("social_media")
	assert.True(t, ok)
	assert.Equal(t, SourceSocialMedia, src)
	_, ok = ParseLeadSource("tiktok")
	assert.False(t, ok)

	p, ok := ParseLeadPriority("high")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)
	_, ok = ParseLeadPriority("URGENT")
	assert.False(t, ok)
}

func TestLastActivity(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &Lead{CreatedAt: created}
	assert.Equal(t, created, l.LastActivity(nil))

	later := created.Add(72 * time.Hour)
	its := []Interaction{{CreatedAt: created.Add(24 * time.Hour)}, {CreatedAt: later}, {CreatedAt: created.Add(-time.Hour)}}
	assert.Equal(t, later, l.LastActivity(its))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Minute), now.Add(time.Minute)

	assert.True(t, (&Interaction{NextAction: "Llamar", NextActionDate: &past}).IsOverdue(now))
	assert.False(t, (&Interaction{NextAction: "Llamar", NextActionDate: &future}).IsOverdue(now))
	assert.False(t, (&Interaction{NextAction: "Llamar", NextActionDate: &past, NextActionCompleted: true}).IsOverdue(now))
	assert.False(t, (&Interaction{NextActionDate: &past}).IsOverdue(now))
	assert.False(t, (&Interaction{NextAction: "Llamar"}).IsOverdue(now))
}
