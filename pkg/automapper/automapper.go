// Package automapper proposes column→property associations for one source
// table against one equipment category's property catalog.
//
// For every (column, property) pair it computes the best similarity score
// among the property's name and declared aliases, classifies the pair into a
// confidence tier, and resolves conflicts with a greedy bipartite assignment
// so that no column maps to two properties and no property receives two
// columns. The result is a pure Proposal value; callers use the Confirmed
// tier to pre-populate a mapping configuration and surface LowConfidence
// matches and unmet required properties for review.
package automapper

import (
	"sort"

	"github.com/gridmap/gridmap/pkg/catalog"
	"github.com/gridmap/gridmap/pkg/similarity"
)

// mapper holds the tunable thresholds for one Propose invocation.
type mapper struct {
	confirmThreshold float64
	lowThreshold     float64
}

// pair is one scored (column, property) combination before resolution.
type pair struct {
	column   Column
	property catalog.Property
	score    float64
	exact    bool // exact normalized name or alias match
}

// Propose computes a classified mapping proposal for the given columns
// against the category's property catalog. It is a pure function: repeated
// calls over identical inputs produce identical proposals.
func Propose(columns ColumnSet, cat catalog.Category, opts ...Option) Proposal {
	m := &mapper{
		confirmThreshold: DefaultConfirmThreshold,
		lowThreshold:     DefaultLowThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}

	pairs := m.scorePairs(columns, cat)
	candidates := m.resolve(pairs)
	candidates = append(candidates, m.unmatchedColumns(columns, pairs, candidates)...)

	sortCandidates(candidates)

	return Proposal{
		Category:      cat.Name,
		Candidates:    candidates,
		UnmetRequired: unmetRequired(cat, candidates),
	}
}

// scorePairs computes the best score for every (column, property) pair.
func (m *mapper) scorePairs(columns ColumnSet, cat catalog.Category) []pair {
	pairs := make([]pair, 0, len(columns)*len(cat.Properties))

	for _, col := range columns {
		for _, prop := range cat.Properties {
			best := similarity.Score(col.Header, prop.Name)
			exact := col.Normalized == similarity.Normalize(prop.Name)

			for _, alias := range prop.Aliases {
				if score := similarity.Score(col.Header, alias); score > best {
					best = score
				}
				if col.Normalized == similarity.Normalize(alias) {
					exact = true
				}
			}

			pairs = append(pairs, pair{column: col, property: prop, score: best, exact: exact})
		}
	}

	return pairs
}

// classify assigns a confidence tier. Exact name or alias matches are always
// Confirmed, regardless of threshold tuning.
func (m *mapper) classify(p pair) Tier {
	switch {
	case p.exact:
		return Confirmed
	case p.score >= m.confirmThreshold:
		return Confirmed
	case p.score >= m.lowThreshold:
		return LowConfidence
	default:
		return NoMatch
	}
}

// resolve performs greedy bipartite assignment over the Confirmed and
// LowConfidence pairs. Pairs losing a conflict are demoted one tier rather
// than silently discarded.
func (m *mapper) resolve(pairs []pair) []Candidate {
	contenders := make([]pair, 0, len(pairs))
	for _, p := range pairs {
		if m.classify(p) > NoMatch {
			contenders = append(contenders, p)
		}
	}

	// Deterministic walk order: descending score, then shorter normalized
	// header, then lexicographic column and property order.
	sort.Slice(contenders, func(i, j int) bool {
		a, b := contenders[i], contenders[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if len(a.column.Normalized) != len(b.column.Normalized) {
			return len(a.column.Normalized) < len(b.column.Normalized)
		}
		if a.column.Normalized != b.column.Normalized {
			return a.column.Normalized < b.column.Normalized
		}
		return a.property.Name < b.property.Name
	})

	claimedColumns := make(map[string]bool)
	claimedProperties := make(map[string]bool)

	candidates := make([]Candidate, 0, len(contenders))
	for _, p := range contenders {
		tier := m.classify(p)

		if claimedColumns[p.column.Normalized] || claimedProperties[p.property.Name] {
			candidates = append(candidates, Candidate{
				Column:   p.column,
				Property: p.property.Name,
				Score:    p.score,
				Tier:     tier - 1,
				Demoted:  true,
			})
			continue
		}

		claimedColumns[p.column.Normalized] = true
		claimedProperties[p.property.Name] = true
		candidates = append(candidates, Candidate{
			Column:   p.column,
			Property: p.property.Name,
			Score:    p.score,
			Tier:     tier,
		})
	}

	return candidates
}

// unmatchedColumns emits a NoMatch candidate for every column that gained no
// assignment and no demoted entry, carrying its best-scoring property for
// operator context.
func (m *mapper) unmatchedColumns(columns ColumnSet, pairs []pair, resolved []Candidate) []Candidate {
	represented := make(map[string]bool, len(resolved))
	for _, c := range resolved {
		represented[c.Column.Normalized] = true
	}

	bestByColumn := make(map[string]pair, len(columns))
	for _, p := range pairs {
		if best, ok := bestByColumn[p.column.Normalized]; !ok || p.score > best.score {
			bestByColumn[p.column.Normalized] = p
		}
	}

	var out []Candidate
	for _, col := range columns {
		if represented[col.Normalized] {
			continue
		}
		candidate := Candidate{Column: col, Tier: NoMatch}
		if best, ok := bestByColumn[col.Normalized]; ok && best.score > 0 {
			candidate.Property = best.property.Name
			candidate.Score = best.score
		}
		out = append(out, candidate)
	}

	return out
}

// unmetRequired lists required properties with no Confirmed assignment.
func unmetRequired(cat catalog.Category, candidates []Candidate) []string {
	confirmed := make(map[string]bool)
	for _, c := range candidates {
		if c.Tier == Confirmed && c.Assigned() {
			confirmed[c.Property] = true
		}
	}

	var unmet []string
	for _, p := range cat.RequiredProperties() {
		if !confirmed[p.Name] {
			unmet = append(unmet, p.Name)
		}
	}

	return unmet
}

// sortCandidates orders the final proposal: grouped by tier (Confirmed,
// LowConfidence, NoMatch), each group by descending score, with the same
// deterministic tie-breaks used during resolution.
func sortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Tier != b.Tier {
			return a.Tier > b.Tier
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Column.Normalized) != len(b.Column.Normalized) {
			return len(a.Column.Normalized) < len(b.Column.Normalized)
		}
		if a.Column.Normalized != b.Column.Normalized {
			return a.Column.Normalized < b.Column.Normalized
		}
		return a.Property < b.Property
	})
}
