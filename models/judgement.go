package models

// ScoreRow is one category x team line of a judgement. Score is the raw
// score divided by the declared maximum, so it lies in [0, 1].
type ScoreRow struct {
	Category string  `bson:"Categories" json:"category"`
	TeamID   string  `bson:"Team_ID" json:"teamId"`
	Score    float64 `bson:"Score" json:"score"`
	Rational string  `bson:"Rational" json:"rational"`
}

// Judgement is one judge's evaluation of a discourse.
type Judgement struct {
	JudgementID    string     `bson:"judgement_id" json:"judgementId"`
	DiscourseID    string     `bson:"discourse_id" json:"discourseId"`
	ModelIDJudging string     `bson:"model_id_judging" json:"modelIdJudging"`
	Rows           []ScoreRow `bson:"rows" json:"rows"`
}

// JudgementRow is the flattened storage shape: one row per category and team,
// all rows of a judging pass sharing the same JudgementID.
type JudgementRow struct {
	JudgementID    string `bson:"judgement_id" json:"judgementId"`
	DiscourseID    string `bson:"discourse_id" json:"discourseId"`
	ModelIDJudging string `bson:"model_id_judging" json:"modelIdJudging"`
	ScoreRow       `bson:",inline"`
}

// Flatten expands a judgement into its storage rows.
func (j Judgement) Flatten() []JudgementRow {
	rows := make([]JudgementRow, 0, len(j.Rows))
	for _, r := range j.Rows {
		rows = append(rows, JudgementRow{
			JudgementID:    j.JudgementID,
			DiscourseID:    j.DiscourseID,
			ModelIDJudging: j.ModelIDJudging,
			ScoreRow:       r,
		})
	}
	return rows
}

// EnrichedJudgementRow is a JudgementRow joined with the discourse, topic and
// agent descriptors. Entity fields are nil when the join finds no match.
// NormalisedScore is filled by the analysis pipeline.
type EnrichedJudgementRow struct {
	JudgementRow       `bson:",inline"`
	TopicID            *string  `bson:"topic_id,omitempty" json:"topicId"`
	ModelProposing     *string  `bson:"model_proposing,omitempty" json:"modelProposing"`
	ModelOpposing      *string  `bson:"model_opposing,omitempty" json:"modelOpposing"`
	JudgeEntity        *string  `bson:"model_entity,omitempty" json:"judgeEntity"`
	ProposerEntity     *string  `bson:"model_proposing_entity,omitempty" json:"proposerEntity"`
	OpponentEntity     *string  `bson:"model_opposing_entity,omitempty" json:"opponentEntity"`
	TopicCreatorEntity *string  `bson:"topic_creator_entity,omitempty" json:"topicCreatorEntity"`
	NormalisedScore    *float64 `bson:"-" json:"normalisedScore,omitempty"`
}
