package judgeclient

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"ojspace/internal/common/cache"
)

const problemKeyPrefix = "ojspace:problem:"

// ProblemGetter reads one problem.
type ProblemGetter interface {
	GetProblem(ctx context.Context, id int64) (*Problem, error)
}

// CachedProblems keeps problem reads in a cache. Failed reads are not cached.
type CachedProblems struct {
	source ProblemGetter
	cache  cache.Cache
	ttl    time.Duration
}

func NewCachedProblems(source ProblemGetter, c cache.Cache, ttl time.Duration) *CachedProblems {
	return &CachedProblems{source: source, cache: c, ttl: ttl}
}

func (p *CachedProblems) GetProblem(ctx context.Context, id int64) (*Problem, error) {
	return cache.GetWithCached(ctx, p.cache, ProblemKey(id), p.ttl,
		func(v *Problem) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
		func(data string) (*Problem, error) {
			var v Problem
			if err := json.Unmarshal([]byte(data), &v); err != nil {
				return nil, err
			}
			return &v, nil
		},
		func(ctx context.Context) (*Problem, error) {
			return p.source.GetProblem(ctx, id)
		})
}

// Forget drops a cached problem so the next read goes to the judge.
func (p *CachedProblems) Forget(ctx context.Context, id int64) error {
	return p.cache.Del(ctx, ProblemKey(id))
}

func ProblemKey(id int64) string {
	return problemKeyPrefix + strconv.FormatInt(id, 10)
}
