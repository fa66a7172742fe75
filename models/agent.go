package models

import "time"

// AgentInfo is the descriptor row registered for every agent taking part in a run.
// ModelID is the agent's stable identity; ModelEntity is the human-readable
// "<class>|<model>" label used when reporting.
type AgentInfo struct {
	ModelID     string    `bson:"model_id" json:"modelId"`
	ModelClass  string    `bson:"model_class" json:"modelClass"`
	Model       string    `bson:"model" json:"model"`
	ModelEntity string    `bson:"model_entity" json:"modelEntity"`
	CreatedAt   time.Time `bson:"creation_date" json:"createdAt"`
}

// AgentRating is one leaderboard line.
type AgentRating struct {
	ModelEntity string  `bson:"model_entity" json:"modelEntity"`
	Rating      float64 `bson:"rating" json:"rating"`
	RD          float64 `bson:"rd" json:"rd"`
	Volatility  float64 `bson:"volatility" json:"volatility"`
	Matches     int     `bson:"matches" json:"matches"`
	Wins        int     `bson:"wins" json:"wins"`
	Losses      int     `bson:"losses" json:"losses"`
	Draws       int     `bson:"draws" json:"draws"`
}
