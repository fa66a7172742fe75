package debate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// BallotBox tallies resolved vote labels per discourse in Redis. Each voter
// counts once per discourse.
type BallotBox struct {
	rdb *redis.Client
}

// Tally is the ballot state of one discourse.
type Tally struct {
	Counts map[string]int64 `json:"counts"` // label -> votes
	Voters int64            `json:"voters"`
}

func NewBallotBox(rdb *redis.Client) *BallotBox {
	return &BallotBox{rdb: rdb}
}

func ballotCountsKey(discourseID string) string {
	return fmt.Sprintf("discourse:%s:ballots:counts", discourseID)
}

func ballotVotersKey(discourseID string) string {
	return fmt.Sprintf("discourse:%s:ballots:voters", discourseID)
}

// Cast records voterID's label. It reports false, without error, when the
// voter already cast a ballot for this discourse.
func (b *BallotBox) Cast(ctx context.Context, discourseID, voterID, label string) (bool, error) {
	votersKey := ballotVotersKey(discourseID)

	added, err := b.rdb.SAdd(ctx, votersKey, voterID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add voter: %w", err)
	}
	if added == 0 {
		return false, nil
	}

	if err := b.rdb.HIncrBy(ctx, ballotCountsKey(discourseID), label, 1).Err(); err != nil {
		b.rdb.SRem(ctx, votersKey, voterID)
		return false, fmt.Errorf("failed to increment count: %w", err)
	}
	return true, nil
}

// HasVoted reports whether voterID already cast a ballot for the discourse.
func (b *BallotBox) HasVoted(ctx context.Context, discourseID, voterID string) (bool, error) {
	return b.rdb.SIsMember(ctx, ballotVotersKey(discourseID), voterID).Result()
}

// Tally returns the current counts of the discourse.
func (b *BallotBox) Tally(ctx context.Context, discourseID string) (Tally, error) {
	pipe := b.rdb.Pipeline()
	countsCmd := pipe.HGetAll(ctx, ballotCountsKey(discourseID))
	votersCmd := pipe.SCard(ctx, ballotVotersKey(discourseID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Tally{}, fmt.Errorf("failed to read ballots: %w", err)
	}

	tally := Tally{Counts: make(map[string]int64), Voters: votersCmd.Val()}
	for label, raw := range countsCmd.Val() {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		tally.Counts[label] = n
	}
	return tally, nil
}
