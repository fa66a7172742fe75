package analysis

import (
	"strconv"

	"aidebater/models"
)

// FailedVote labels a vote whose choice does not resolve to a judgement.
const FailedVote = "Failed to vote"

var ordinals = [...]string{"first_judgement", "second_judgement", "third_judgement", "fourth_judgement"}

// OrdinalLabel names the 0-based candidate position: first_judgement up to
// fourth_judgement, then 5th_judgement, 6th_judgement and so on with English
// ordinal suffixes (21st, 22nd, 111th).
func OrdinalLabel(position int) string {
	if position < len(ordinals) {
		return ordinals[position]
	}
	n := position + 1
	return strconv.Itoa(n) + ordinalSuffix(n) + "_judgement"
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// ResolveVote labels the choice by its position among candidates. A choice
// that is not a known judgement, or was not shown, is a FailedVote.
func ResolveVote(candidates []string, chosen string, known map[string]bool) string {
	if !known[chosen] {
		return FailedVote
	}
	for i, id := range candidates {
		if id == chosen {
			return OrdinalLabel(i)
		}
	}
	return FailedVote
}

// ResolveVotes returns a copy of votes with Label set.
func ResolveVotes(votes []models.ResolvedVote, known map[string]bool) []models.ResolvedVote {
	out := make([]models.ResolvedVote, len(votes))
	for i, v := range votes {
		v.Label = ResolveVote(v.Candidates, v.Chosen, known)
		out[i] = v
	}
	return out
}

// KnownJudgements collects the judgement ids present in rows.
func KnownJudgements(rows []models.EnrichedJudgementRow) map[string]bool {
	known := make(map[string]bool)
	for _, r := range rows {
		known[r.JudgementID] = true
	}
	return known
}
