package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"aidebater/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS model_infos (
	model_id      TEXT PRIMARY KEY,
	model_class   TEXT NOT NULL,
	model         TEXT NOT NULL,
	model_entity  TEXT NOT NULL,
	creation_date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS topics (
	topic_id  TEXT PRIMARY KEY,
	model_id  TEXT NOT NULL,
	ith_topic INTEGER NOT NULL,
	Subject   TEXT NOT NULL,
	Rational  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS dim_discourse (
	discourse_id    TEXT PRIMARY KEY,
	topic_id        TEXT NOT NULL,
	model_proposing TEXT NOT NULL,
	model_opposing  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fact_discourse (
	argument_id    TEXT PRIMARY KEY,
	discourse_id   TEXT NOT NULL,
	ith_argument   INTEGER NOT NULL,
	Argument       TEXT,
	model_speaking TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS dim_judgements (
	judgement_id     TEXT NOT NULL,
	discourse_id     TEXT NOT NULL,
	model_id_judging TEXT NOT NULL,
	Categories       TEXT NOT NULL,
	Team_ID          TEXT NOT NULL,
	Score            REAL NOT NULL,
	Rational         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS votes (
	vote_id         TEXT PRIMARY KEY,
	discourse_id    TEXT NOT NULL,
	model_id_voting TEXT NOT NULL,
	judgement_ids   TEXT NOT NULL,
	Judgement_ID    TEXT NOT NULL,
	created_at      TEXT NOT NULL
);
`

// SQLiteStore keeps the dataset in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the dataset at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close(context.Context) error { return s.db.Close() }

func (s *SQLiteStore) AppendAgent(ctx context.Context, info models.AgentInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO model_infos (model_id, model_class, model, model_entity, creation_date)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT (model_id) DO NOTHING`,
		info.ModelID, info.ModelClass, info.Model, info.ModelEntity, info.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to append agent %s: %w", info.ModelID, err)
	}
	return nil
}

func (s *SQLiteStore) AppendTopics(ctx context.Context, topics []models.Topic) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, t := range topics {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO topics (topic_id, model_id, ith_topic, Subject, Rational) VALUES (?, ?, ?, ?, ?)`,
				t.TopicID, t.ModelID, t.IthTopic, t.Subject, t.Rational); err != nil {
				return fmt.Errorf("failed to append topic %s: %w", t.TopicID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AppendDiscourse(ctx context.Context, d models.Discourse) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dim_discourse (discourse_id, topic_id, model_proposing, model_opposing)
		 VALUES (?, ?, ?, ?) ON CONFLICT (discourse_id) DO NOTHING`,
		d.DiscourseID, d.TopicID, d.ModelProposing, d.ModelOpposing)
	if err != nil {
		return fmt.Errorf("failed to append discourse %s: %w", d.DiscourseID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDiscourseExists, d.DiscourseID)
	}
	return nil
}

func (s *SQLiteStore) AppendArguments(ctx context.Context, discourseID string, args []models.Argument) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range args {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fact_discourse (argument_id, discourse_id, ith_argument, Argument, model_speaking)
				 VALUES (?, ?, ?, ?, ?)`,
				a.ArgumentID, discourseID, a.IthArgument, a.Argument, a.ModelSpeaking); err != nil {
				return fmt.Errorf("failed to append argument %s: %w", a.ArgumentID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AppendJudgement(ctx context.Context, j models.Judgement) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range j.Flatten() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO dim_judgements (judgement_id, discourse_id, model_id_judging, Categories, Team_ID, Score, Rational)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.JudgementID, r.DiscourseID, r.ModelIDJudging, r.Category, r.TeamID, r.Score, r.Rational); err != nil {
				return fmt.Errorf("failed to append judgement %s: %w", j.JudgementID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AppendVote(ctx context.Context, v models.Vote) error {
	candidates, err := json.Marshal(v.Candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO votes (vote_id, discourse_id, model_id_voting, judgement_ids, Judgement_ID, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.VoteID, v.DiscourseID, v.ModelIDVoting, string(candidates), v.Chosen, v.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to append vote %s: %w", v.VoteID, err)
	}
	return nil
}

func (s *SQLiteStore) HasDiscourse(ctx context.Context, discourseID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dim_discourse WHERE discourse_id = ?`, discourseID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) LoadTopic(ctx context.Context, topicID string) (models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRowContext(ctx,
		`SELECT topic_id, model_id, ith_topic, Subject, Rational FROM topics WHERE topic_id = ?`, topicID).
		Scan(&t.TopicID, &t.ModelID, &t.IthTopic, &t.Subject, &t.Rational)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteStore) LoadTopics(ctx context.Context) ([]models.EnrichedTopic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT topics.topic_id, topics.model_id, topics.ith_topic, topics.Subject, topics.Rational,
		       model_infos.model_entity
		FROM topics
		LEFT JOIN model_infos USING (model_id)
		ORDER BY topics.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EnrichedTopic
	for rows.Next() {
		var t models.EnrichedTopic
		var entity sql.NullString
		if err := rows.Scan(&t.TopicID, &t.ModelID, &t.IthTopic, &t.Subject, &t.Rational, &entity); err != nil {
			return nil, err
		}
		t.ModelEntity = nullable(entity)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadCompetitions(ctx context.Context) ([]models.EnrichedDiscourse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT discourse.discourse_id, discourse.topic_id, discourse.model_proposing, discourse.model_opposing,
		       topics.Subject,
		       model_infos_prop.model_entity,
		       model_infos_oppo.model_entity,
		       model_infos_creator.model_entity
		FROM dim_discourse AS discourse
		LEFT JOIN model_infos AS model_infos_oppo ON discourse.model_opposing = model_infos_oppo.model_id
		LEFT JOIN model_infos AS model_infos_prop ON discourse.model_proposing = model_infos_prop.model_id
		LEFT JOIN topics ON discourse.topic_id = topics.topic_id
		LEFT JOIN model_infos AS model_infos_creator ON topics.model_id = model_infos_creator.model_id
		ORDER BY discourse.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EnrichedDiscourse
	for rows.Next() {
		var d models.EnrichedDiscourse
		var subject, prop, oppo, creator sql.NullString
		if err := rows.Scan(&d.DiscourseID, &d.TopicID, &d.ModelProposing, &d.ModelOpposing,
			&subject, &prop, &oppo, &creator); err != nil {
			return nil, err
		}
		d.Subject = nullable(subject)
		d.ModelProposingEntity = nullable(prop)
		d.ModelOpposingEntity = nullable(oppo)
		d.TopicCreatorEntity = nullable(creator)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadDiscourse(ctx context.Context, discourseID string) ([]models.Argument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT discourse_id, ith_argument, argument_id, Argument, model_speaking
		FROM fact_discourse
		WHERE discourse_id = ?
		ORDER BY ith_argument`, discourseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Argument
	for rows.Next() {
		var a models.Argument
		var text sql.NullString
		if err := rows.Scan(&a.DiscourseID, &a.IthArgument, &a.ArgumentID, &text, &a.ModelSpeaking); err != nil {
			return nil, err
		}
		a.Argument = nullable(text)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadJudgements(ctx context.Context, discourseID string) ([]models.Judgement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT judgement_id, discourse_id, model_id_judging, Categories, Team_ID, Score, Rational
		FROM dim_judgements
		WHERE discourse_id = ?
		ORDER BY rowid`, discourseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []models.JudgementRow
	for rows.Next() {
		var r models.JudgementRow
		if err := rows.Scan(&r.JudgementID, &r.DiscourseID, &r.ModelIDJudging,
			&r.Category, &r.TeamID, &r.Score, &r.Rational); err != nil {
			return nil, err
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groupJudgements(flat), nil
}

func (s *SQLiteStore) LoadEnrichedJudgements(ctx context.Context) ([]models.EnrichedJudgementRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT judg.judgement_id, judg.discourse_id, judg.model_id_judging,
		       judg.Categories, judg.Team_ID, judg.Score, judg.Rational,
		       discourse.topic_id, discourse.model_proposing, discourse.model_opposing,
		       model_infos.model_entity,
		       model_infos_prop.model_entity,
		       model_infos_oppo.model_entity,
		       model_infos_creator.model_entity
		FROM dim_judgements AS judg
		LEFT JOIN model_infos ON judg.model_id_judging = model_infos.model_id
		LEFT JOIN dim_discourse AS discourse ON judg.discourse_id = discourse.discourse_id
		LEFT JOIN model_infos AS model_infos_prop ON discourse.model_proposing = model_infos_prop.model_id
		LEFT JOIN model_infos AS model_infos_oppo ON discourse.model_opposing = model_infos_oppo.model_id
		LEFT JOIN topics ON discourse.topic_id = topics.topic_id
		LEFT JOIN model_infos AS model_infos_creator ON topics.model_id = model_infos_creator.model_id
		ORDER BY judg.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EnrichedJudgementRow
	for rows.Next() {
		var r models.EnrichedJudgementRow
		var topicID, prop, oppo, judge, propEntity, oppoEntity, creator sql.NullString
		if err := rows.Scan(&r.JudgementID, &r.DiscourseID, &r.ModelIDJudging,
			&r.Category, &r.TeamID, &r.Score, &r.Rational,
			&topicID, &prop, &oppo,
			&judge, &propEntity, &oppoEntity, &creator); err != nil {
			return nil, err
		}
		r.TopicID = nullable(topicID)
		r.ModelProposing = nullable(prop)
		r.ModelOpposing = nullable(oppo)
		r.JudgeEntity = nullable(judge)
		r.ProposerEntity = nullable(propEntity)
		r.OpponentEntity = nullable(oppoEntity)
		r.TopicCreatorEntity = nullable(creator)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) LoadVotes(ctx context.Context) ([]models.ResolvedVote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT votes.vote_id, votes.discourse_id, votes.model_id_voting, votes.judgement_ids,
		       votes.Judgement_ID, votes.created_at, model_infos.model_entity
		FROM votes
		LEFT JOIN model_infos ON votes.model_id_voting = model_infos.model_id
		ORDER BY votes.rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ResolvedVote
	for rows.Next() {
		var v models.ResolvedVote
		var candidates, created string
		var entity sql.NullString
		if err := rows.Scan(&v.VoteID, &v.DiscourseID, &v.ModelIDVoting, &candidates,
			&v.Chosen, &created, &entity); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(candidates), &v.Candidates); err != nil {
			return nil, fmt.Errorf("vote %s: bad candidate list: %w", v.VoteID, err)
		}
		if v.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("vote %s: bad timestamp: %w", v.VoteID, err)
		}
		v.VoterEntity = nullable(entity)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
