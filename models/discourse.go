package models

import "strconv"

// Discourse is one debate between a proposer and an opponent over a topic.
type Discourse struct {
	DiscourseID    string `bson:"discourse_id" json:"discourseId"`
	TopicID        string `bson:"topic_id" json:"topicId"`
	ModelProposing string `bson:"model_proposing" json:"modelProposing"`
	ModelOpposing  string `bson:"model_opposing" json:"modelOpposing"`
}

// DiscourseID derives the discourse identifier from the topic and both
// participants. The same triple always yields the same id.
func DiscourseID(topicID, proposer, opponent string) string {
	return topicID + ":" + proposer + "-vs-" + opponent
}

// ArgumentID derives the identifier of the ith turn of a discourse.
func ArgumentID(discourseID string, ith int) string {
	return discourseID + strconv.Itoa(ith)
}

// Argument is one turn of a discourse. Even turns belong to the proposer,
// odd turns to the opponent. Argument is nil when the speaker produced no
// valid answer within its attempts.
type Argument struct {
	DiscourseID   string  `bson:"discourse_id" json:"discourseId"`
	IthArgument   int     `bson:"ith_argument" json:"ithArgument"`
	ArgumentID    string  `bson:"argument_id" json:"argumentId"`
	Argument      *string `bson:"Argument" json:"argument"`
	ModelSpeaking string  `bson:"model_speaking" json:"modelSpeaking"`
}

// Gap reports whether the turn was recorded without an argument.
func (a Argument) Gap() bool {
	return a.Argument == nil
}

// EnrichedDiscourse is a Discourse joined with topic and agent descriptors.
type EnrichedDiscourse struct {
	Discourse            `bson:",inline"`
	Subject              *string `bson:"Subject,omitempty" json:"subject"`
	ModelProposingEntity *string `bson:"model_proposing_entity,omitempty" json:"modelProposingEntity"`
	ModelOpposingEntity  *string `bson:"model_opposing_entity,omitempty" json:"modelOpposingEntity"`
	TopicCreatorEntity   *string `bson:"topic_creator_entity,omitempty" json:"topicCreatorEntity"`
}
