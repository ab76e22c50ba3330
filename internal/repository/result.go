package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-netplay/internal/entity"
)

var ErrResultNotFound = errors.New("match result not found")

const (
	recentResultsKey = "results:recent"
	recentResultsCap = 100
)

// ResultRepository archives finished-match summaries. Only terminal outcomes
// are stored; in-progress games never touch storage.
type ResultRepository interface {
	Record(ctx context.Context, result *entity.MatchResult) error
	GetByID(ctx context.Context, id string) (*entity.MatchResult, error)
	Recent(ctx context.Context, n int64) ([]*entity.MatchResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Record(ctx context.Context, result *entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal match result: %w", err)
	}

	resultKey := "result:" + result.ID

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, resultKey, resultJSON, 0)
	pipe.LPush(ctx, recentResultsKey, result.ID)
	pipe.LTrim(ctx, recentResultsKey, 0, recentResultsCap-1)

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByID(ctx context.Context, id string) (*entity.MatchResult, error) {
	resultKey := "result:" + id

	response, err := that.client.Get(ctx, resultKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.MatchResult{}, ErrResultNotFound
	}

	if err != nil {
		return &entity.MatchResult{}, fmt.Errorf("failed to get match result by ID: %w", err)
	}

	var result entity.MatchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return &entity.MatchResult{}, fmt.Errorf("failed to unmarshal match result: %w", err)
	}

	return &result, nil
}

func (that *dbResult) Recent(ctx context.Context, n int64) ([]*entity.MatchResult, error) {
	ids, err := that.client.LRange(ctx, recentResultsKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(ids))
	for _, id := range ids {
		result, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrResultNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}
