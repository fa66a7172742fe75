package models

import "fmt"

// Topic is a debate prompt authored by a creator agent.
type Topic struct {
	TopicID  string `bson:"topic_id" json:"topicId"`
	ModelID  string `bson:"model_id" json:"modelId"` // creator
	IthTopic int    `bson:"ith_topic" json:"ithTopic"`
	Subject  string `bson:"Subject" json:"subject"`
	Rational string `bson:"Rational" json:"rational"`
}

// Message renders the topic as the opening user turn of a debate.
func (t Topic) Message() string {
	return fmt.Sprintf("Subject: %s; Rational:%s", t.Subject, t.Rational)
}

// EnrichedTopic is a Topic joined with its creator's descriptor.
// ModelEntity is nil when the creator is not registered.
type EnrichedTopic struct {
	Topic       `bson:",inline"`
	ModelEntity *string `bson:"model_entity,omitempty" json:"modelEntity"`
}
