package store

import (
	"context"
	"encoding/json"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/data/redisStore"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisJobStore returns nil when redis is unreachable; main falls
// back to the in-memory store in that case.
func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if backing == nil {
		return nil
	}
	return &RedisJobStore{
		store:  backing,
		logger: logger_i.NewLogger("RedisJobStore"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, job.Id, data, config.RedisJobStoreTTL); err != nil {
		return err
	}
	s.logger.Debug("saved job", "jobId", job.Id, "status", job.Status)
	return nil
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job

	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return job, false
	}
	if err != nil {
		s.logger.Error("error fetching job", "jobId", jobId, "error", err)
		return job, false
	}

	if err := json.Unmarshal([]byte(val), &job); err != nil {
		s.logger.Error("error decoding stored job", "jobId", jobId, "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.store.Del(ctx, jobID); err != nil {
		s.logger.Error("error deleting job", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("job deleted", "jobId", jobID)
}

// TestJobStore wires a store backed by a test redis client.
func TestJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("RedisJobStore test"),
	}
}
