package models

import "time"

// Vote records an audience selection: the candidate judgements shown, in the
// order they were shown, and the one the voter picked.
type Vote struct {
	VoteID        string    `bson:"vote_id" json:"voteId"`
	DiscourseID   string    `bson:"discourse_id" json:"discourseId"`
	ModelIDVoting string    `bson:"model_id_voting" json:"modelIdVoting"`
	Candidates    []string  `bson:"judgement_ids" json:"candidates"`
	Chosen        string    `bson:"Judgement_ID" json:"chosen"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// ResolvedVote is a Vote with its ordinal label ("first_judgement", ...,
// or "Failed to vote").
type ResolvedVote struct {
	Vote        `bson:",inline"`
	VoterEntity *string `bson:"model_entity,omitempty" json:"voterEntity"`
	Label       string  `bson:"-" json:"label"`
}
