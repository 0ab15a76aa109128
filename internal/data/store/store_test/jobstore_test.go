package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/doctalk-ai/doctalk/internal/data/redisStore"
	"github.com/doctalk-ai/doctalk/internal/data/store"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
)

func newTestJobStore(t *testing.T) (*store.RedisJobStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestJobStore(redisStore.NewTestStore(client)), mr
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	jobStore, mr := newTestJobStore(t)
	ctx := context.Background()
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:         jobID,
		DocumentId: "doc_1",
		Status:     jobModel.JobStatusRunning,
		Payload: jobModel.JobPayload{
			DocumentName: "report.pdf",
			FilePath:     "/tmp/upload-123",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrieved, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("job was saved but not found")
		}
		if retrieved.Payload.DocumentName != testJob.Payload.DocumentName {
			t.Errorf("data mismatch, got %s want %s",
				retrieved.Payload.DocumentName, testJob.Payload.DocumentName)
		}
		if retrieved.DocumentId != testJob.DocumentId {
			t.Errorf("document id mismatch, got %s want %s", retrieved.DocumentId, testJob.DocumentId)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("job still exists after DeleteJob")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	jobStore, _ := newTestJobStore(t)
	ctx := context.Background()
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()
}

func TestInMemoryJobStore_Fallback(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-job", Status: jobModel.JobStatusQueued}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	got, found := jobStore.GetJob(ctx, "mem-job")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("unexpected job: %+v found=%v", got, found)
	}
	jobStore.DeleteJob(ctx, "mem-job")
	if _, found := jobStore.GetJob(ctx, "mem-job"); found {
		t.Fatal("job still present after delete")
	}
}
