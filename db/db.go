package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names mirror the tables of the SQLite dataset.
const (
	agentsCollection     = "model_infos"
	topicsCollection     = "topics"
	discourseCollection  = "dim_discourse"
	argumentsCollection  = "fact_discourse"
	judgementsCollection = "dim_judgements"
	votesCollection      = "votes"
)

// MongoStore keeps the dataset in MongoDB.
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	agents     *mongo.Collection
	topics     *mongo.Collection
	discourses *mongo.Collection
	arguments  *mongo.Collection
	judgements *mongo.Collection
	votes      *mongo.Collection
}

// extractDBName parses the database name from the URI, defaulting to "aidebater"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "aidebater"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:]
	}
	return "aidebater"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
// and makes sure the unique indexes exist.
func ConnectMongoDB(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(extractDBName(uri))
	s := &MongoStore{
		client:     client,
		database:   database,
		agents:     database.Collection(agentsCollection),
		topics:     database.Collection(topicsCollection),
		discourses: database.Collection(discourseCollection),
		arguments:  database.Collection(argumentsCollection),
		judgements: database.Collection(judgementsCollection),
		votes:      database.Collection(votesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := map[*mongo.Collection]string{
		s.agents:     "model_id",
		s.topics:     "topic_id",
		s.discourses: "discourse_id",
		s.arguments:  "argument_id",
		s.votes:      "vote_id",
	}
	for coll, key := range unique {
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("failed to index %s.%s: %w", coll.Name(), key, err)
		}
	}
	_, err := s.judgements.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "discourse_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", judgementsCollection, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
