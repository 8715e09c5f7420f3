package automapper

import (
	"fmt"
	"strings"
)

// Tier classifies a match candidate by similarity score.
type Tier int

const (
	// NoMatch means the score fell below the low-confidence threshold.
	NoMatch Tier = iota
	// LowConfidence means the match needs manual confirmation.
	LowConfidence
	// Confirmed means the match is actionable without review.
	Confirmed
)

// String returns a human-readable form of the tier.
func (t Tier) String() string {
	switch t {
	case Confirmed:
		return "confirmed"
	case LowConfidence:
		return "low-confidence"
	case NoMatch:
		return "no-match"
	default:
		return "unknown"
	}
}

// Candidate is one proposed column→property association. Candidates are
// produced fresh per Propose call and never persisted directly; only
// confirmed candidates the caller accepts become mapping entries.
type Candidate struct {
	Column   Column
	Property string
	Score    float64
	Tier     Tier

	// Demoted marks a candidate dropped during conflict resolution: a
	// plausible match existed but its column or property was claimed by a
	// higher-scoring pair. Demoted candidates are not assignments.
	Demoted bool
}

// Assigned reports whether the candidate is an actual proposed assignment.
func (c Candidate) Assigned() bool {
	return c.Tier > NoMatch && !c.Demoted
}

// Proposal is the ordered output of the auto-mapper for one category:
// candidates grouped by tier (Confirmed, LowConfidence, NoMatch), each group
// ordered by descending score. A proposal never mutates any persisted
// mapping configuration; the caller decides what to accept.
type Proposal struct {
	Category      string
	Candidates    []Candidate
	UnmetRequired []string // required properties with no confirmed assignment
}

// Assignments returns only the assigned candidates, in proposal order.
func (p Proposal) Assignments() []Candidate {
	var out []Candidate
	for _, c := range p.Candidates {
		if c.Assigned() {
			out = append(out, c)
		}
	}
	return out
}

// Tier returns the candidates in the given tier, in proposal order.
func (p Proposal) Tier(tier Tier) []Candidate {
	var out []Candidate
	for _, c := range p.Candidates {
		if c.Tier == tier {
			out = append(out, c)
		}
	}
	return out
}

// String returns a one-line summary of the proposal.
func (p Proposal) String() string {
	confirmed := len(p.Tier(Confirmed))
	low := len(p.Tier(LowConfidence))
	none := len(p.Tier(NoMatch))

	var parts []string
	parts = append(parts, fmt.Sprintf("%d confirmed", confirmed))
	if low > 0 {
		parts = append(parts, fmt.Sprintf("%d low-confidence", low))
	}
	if none > 0 {
		parts = append(parts, fmt.Sprintf("%d unmatched", none))
	}
	if len(p.UnmetRequired) > 0 {
		parts = append(parts, fmt.Sprintf("%d required properties unmet", len(p.UnmetRequired)))
	}

	return fmt.Sprintf("Proposal for %s: %s", p.Category, strings.Join(parts, ", "))
}
