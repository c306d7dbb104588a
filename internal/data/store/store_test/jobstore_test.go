package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/data/redisStore"
	"github.com/akolanti/TrainingBot/internal/data/store"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/domain/jobModel"
)

func newJobStore(t *testing.T) (*store.RedisJobStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestJobStore(redisStore.NewTestStore(client)), mr
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	jobStore, mr := newJobStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		Status:  jobModel.JobStatusRunning,
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Question: "How many leave days do employees get?",
			Language: commonModels.Telugu,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
		if retrievedJob.JobPayload.Language != commonModels.Telugu {
			t.Errorf("Language lost in roundtrip: got %q", retrievedJob.JobPayload.Language)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisMessageStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	messageStore := store.TestMessageStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	chatID := "chat_xyz"

	if messageStore.ValidateChatId(ctx, chatID) {
		t.Fatal("unknown chat id validated")
	}
	if err := messageStore.AppendTurns(ctx, chatID, []commonModels.ChatTurn{{Role: commonModels.RoleUser, Content: "x"}}); err == nil {
		t.Fatal("expected error appending to uninitialized chat")
	}

	if err := messageStore.InitNewChat(ctx, chatID); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}
	if !messageStore.ValidateChatId(ctx, chatID) {
		t.Fatal("initialized chat id not validated")
	}

	turns := []commonModels.ChatTurn{
		{Role: commonModels.RoleUser, Content: "what is the leave policy?"},
		{Role: commonModels.RoleAssistant, Content: "20 days per year."},
	}
	if err := messageStore.AppendTurns(ctx, chatID, turns); err != nil {
		t.Fatalf("AppendTurns failed: %v", err)
	}

	history, err := messageStore.GetHistory(ctx, chatID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	// opening system turn plus the two appended turns
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Role != commonModels.RoleAssistant || last.Content != "20 days per year." {
		t.Errorf("unexpected last turn: %+v", last)
	}

	if err := messageStore.ClearChat(ctx, chatID); err != nil {
		t.Fatalf("ClearChat failed: %v", err)
	}
	if mr.Exists(chatID) {
		t.Error("chat still exists in Redis after ClearChat")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-1", Status: jobModel.JobStatusQueued}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	got, found := jobStore.GetJob(ctx, "mem-1")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("unexpected job: %+v found=%v", got, found)
	}

	jobStore.DeleteJob(ctx, "mem-1")
	if _, found := jobStore.GetJob(ctx, "mem-1"); found {
		t.Error("job still present after delete")
	}
}
