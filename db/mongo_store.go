package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aidebater/models"
)

func (s *MongoStore) AppendAgent(ctx context.Context, info models.AgentInfo) error {
	_, err := s.agents.UpdateOne(ctx,
		bson.M{"model_id": info.ModelID},
		bson.M{"$setOnInsert": info},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to append agent %s: %w", info.ModelID, err)
	}
	return nil
}

func (s *MongoStore) AppendTopics(ctx context.Context, topics []models.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(topics))
	for _, t := range topics {
		docs = append(docs, t)
	}
	if _, err := s.topics.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append topics: %w", err)
	}
	return nil
}

func (s *MongoStore) AppendDiscourse(ctx context.Context, d models.Discourse) error {
	_, err := s.discourses.InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDiscourseExists, d.DiscourseID)
	}
	if err != nil {
		return fmt.Errorf("failed to append discourse %s: %w", d.DiscourseID, err)
	}
	return nil
}

func (s *MongoStore) AppendArguments(ctx context.Context, discourseID string, args []models.Argument) error {
	if len(args) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(args))
	for _, a := range args {
		a.DiscourseID = discourseID
		docs = append(docs, a)
	}
	if _, err := s.arguments.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append arguments of %s: %w", discourseID, err)
	}
	return nil
}

func (s *MongoStore) AppendJudgement(ctx context.Context, j models.Judgement) error {
	rows := j.Flatten()
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r)
	}
	if _, err := s.judgements.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append judgement %s: %w", j.JudgementID, err)
	}
	return nil
}

func (s *MongoStore) AppendVote(ctx context.Context, v models.Vote) error {
	if _, err := s.votes.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("failed to append vote %s: %w", v.VoteID, err)
	}
	return nil
}

func (s *MongoStore) HasDiscourse(ctx context.Context, discourseID string) (bool, error) {
	n, err := s.discourses.CountDocuments(ctx, bson.M{"discourse_id": discourseID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *MongoStore) LoadTopic(ctx context.Context, topicID string) (models.Topic, error) {
	var t models.Topic
	err := s.topics.FindOne(ctx, bson.M{"topic_id": topicID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}
	return t, err
}

// lookup left-joins model_infos (or another collection) into as.
func lookup(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

// first picks the first element of a looked-up array; empty arrays leave the
// field unset.
func first(path string) bson.D {
	return bson.D{{Key: "$arrayElemAt", Value: bson.A{path, 0}}}
}

func drop(fields ...string) bson.D {
	projection := bson.D{{Key: "_id", Value: 0}}
	for _, f := range fields {
		projection = append(projection, bson.E{Key: f, Value: 0})
	}
	return bson.D{{Key: "$project", Value: projection}}
}

func naturalOrder() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}}
}

func (s *MongoStore) LoadTopics(ctx context.Context) ([]models.EnrichedTopic, error) {
	pipeline := mongo.Pipeline{
		naturalOrder(),
		lookup(agentsCollection, "model_id", "model_id", "creator"),
		{{Key: "$set", Value: bson.D{{Key: "model_entity", Value: first("$creator.model_entity")}}}},
		drop("creator"),
	}
	var out []models.EnrichedTopic
	if err := s.aggregate(ctx, s.topics, pipeline, &out); err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	return out, nil
}

func (s *MongoStore) LoadCompetitions(ctx context.Context) ([]models.EnrichedDiscourse, error) {
	pipeline := mongo.Pipeline{
		naturalOrder(),
		lookup(agentsCollection, "model_proposing", "model_id", "prop"),
		lookup(agentsCollection, "model_opposing", "model_id", "oppo"),
		lookup(topicsCollection, "topic_id", "topic_id", "topic"),
		{{Key: "$set", Value: bson.D{{Key: "topic", Value: first("$topic")}}}},
		lookup(agentsCollection, "topic.model_id", "model_id", "creator"),
		{{Key: "$set", Value: bson.D{
			{Key: "Subject", Value: "$topic.Subject"},
			{Key: "model_proposing_entity", Value: first("$prop.model_entity")},
			{Key: "model_opposing_entity", Value: first("$oppo.model_entity")},
			{Key: "topic_creator_entity", Value: first("$creator.model_entity")},
		}}},
		drop("prop", "oppo", "topic", "creator"),
	}
	var out []models.EnrichedDiscourse
	if err := s.aggregate(ctx, s.discourses, pipeline, &out); err != nil {
		return nil, fmt.Errorf("failed to load competitions: %w", err)
	}
	return out, nil
}

func (s *MongoStore) LoadDiscourse(ctx context.Context, discourseID string) ([]models.Argument, error) {
	cursor, err := s.arguments.Find(ctx,
		bson.M{"discourse_id": discourseID},
		options.Find().SetSort(bson.D{{Key: "ith_argument", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to load discourse %s: %w", discourseID, err)
	}
	var out []models.Argument
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) LoadJudgements(ctx context.Context, discourseID string) ([]models.Judgement, error) {
	cursor, err := s.judgements.Find(ctx,
		bson.M{"discourse_id": discourseID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to load judgements of %s: %w", discourseID, err)
	}
	var rows []models.JudgementRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return groupJudgements(rows), nil
}

func (s *MongoStore) LoadEnrichedJudgements(ctx context.Context) ([]models.EnrichedJudgementRow, error) {
	pipeline := mongo.Pipeline{
		naturalOrder(),
		lookup(agentsCollection, "model_id_judging", "model_id", "judge"),
		lookup(discourseCollection, "discourse_id", "discourse_id", "discourse"),
		{{Key: "$set", Value: bson.D{{Key: "discourse", Value: first("$discourse")}}}},
		lookup(agentsCollection, "discourse.model_proposing", "model_id", "prop"),
		lookup(agentsCollection, "discourse.model_opposing", "model_id", "oppo"),
		lookup(topicsCollection, "discourse.topic_id", "topic_id", "topic"),
		{{Key: "$set", Value: bson.D{{Key: "topic", Value: first("$topic")}}}},
		lookup(agentsCollection, "topic.model_id", "model_id", "creator"),
		{{Key: "$set", Value: bson.D{
			{Key: "topic_id", Value: "$discourse.topic_id"},
			{Key: "model_proposing", Value: "$discourse.model_proposing"},
			{Key: "model_opposing", Value: "$discourse.model_opposing"},
			{Key: "model_entity", Value: first("$judge.model_entity")},
			{Key: "model_proposing_entity", Value: first("$prop.model_entity")},
			{Key: "model_opposing_entity", Value: first("$oppo.model_entity")},
			{Key: "topic_creator_entity", Value: first("$creator.model_entity")},
		}}},
		drop("judge", "discourse", "prop", "oppo", "topic", "creator"),
	}
	var out []models.EnrichedJudgementRow
	if err := s.aggregate(ctx, s.judgements, pipeline, &out); err != nil {
		return nil, fmt.Errorf("failed to load judgements: %w", err)
	}
	return out, nil
}

func (s *MongoStore) LoadVotes(ctx context.Context) ([]models.ResolvedVote, error) {
	pipeline := mongo.Pipeline{
		naturalOrder(),
		lookup(agentsCollection, "model_id_voting", "model_id", "voter"),
		{{Key: "$set", Value: bson.D{{Key: "model_entity", Value: first("$voter.model_entity")}}}},
		drop("voter"),
	}
	var out []models.ResolvedVote
	if err := s.aggregate(ctx, s.votes, pipeline, &out); err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	return out, nil
}

func (s *MongoStore) aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
