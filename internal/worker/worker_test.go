package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/domain/jobModel"
	"github.com/akolanti/TrainingBot/internal/job"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

// MockRagService to track if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	AnswerText     string
}

func (m *MockRagService) Ingest(ctx context.Context, filePath, docName string) (string, error) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return "Knowledge base updated successfully.", nil
}

func (m *MockRagService) Answer(ctx context.Context, query string, lang commonModels.Language) string {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return m.AnswerText
}

func (m *MockRagService) Summarize(ctx context.Context, lang commonModels.Language) string {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return m.AnswerText
}

func (m *MockRagService) ClearCache() error {
	return nil
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

// MockMessageStore handles chat history
type MockMessageStore struct {
	mu       sync.Mutex
	Appended map[string][]commonModels.ChatTurn
}

func (m *MockMessageStore) ValidateChatId(ctx context.Context, id string) bool {
	return true
}

func (m *MockMessageStore) InitNewChat(ctx context.Context, id string) error {
	return nil
}

func (m *MockMessageStore) AppendTurns(ctx context.Context, id string, turns []commonModels.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Appended == nil {
		m.Appended = make(map[string][]commonModels.ChatTurn)
	}
	m.Appended[id] = append(m.Appended[id], turns...)
	return nil
}

func (m *MockMessageStore) GetHistory(ctx context.Context, id string) ([]commonModels.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Appended[id], nil
}

func (m *MockMessageStore) ClearChat(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Appended, id)
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	messageStore := &MockMessageStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
		MessageStore:      messageStore,
	}
	mockRag := &MockRagService{AnswerText: "mocked answer"}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		// Give it a moment to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a query job and saves history", func(t *testing.T) {
		testJob := jobModel.Job{
			Id:      "test-1",
			ChatId:  "chat-1",
			JobType: jobModel.JobTypeQuery,
			JobPayload: jobModel.JobPayload{
				Question: "what is the leave policy?",
				Language: commonModels.English,
			},
		}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}

		turns, _ := messageStore.GetHistory(context.Background(), "chat-1")
		if len(turns) != 2 {
			t.Fatalf("Expected user+assistant turns in history, got %d", len(turns))
		}
		if turns[0].Role != commonModels.RoleUser || turns[1].Role != commonModels.RoleAssistant {
			t.Errorf("Unexpected turn roles: %+v", turns)
		}
		if turns[1].Content != "mocked answer" {
			t.Errorf("Assistant turn content mismatch: %q", turns[1].Content)
		}
	})

	t.Run("Worker processes a summary job", func(t *testing.T) {
		testJob := jobModel.Job{
			Id:      "test-2",
			ChatId:  "chat-2",
			JobType: jobModel.JobTypeSummary,
			JobPayload: jobModel.JobPayload{
				Language: commonModels.Hindi,
			},
		}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		turns, _ := messageStore.GetHistory(context.Background(), "chat-2")
		if len(turns) != 1 || turns[0].Role != commonModels.RoleAssistant {
			t.Errorf("Expected a single assistant turn for a summary, got %+v", turns)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the full idle timeout")
	}

	atomic.StoreInt64(&currentWorkerCount, 0)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 2 workers; the pool floor is 1, so one should retire
	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(200 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count >= 2 {
		t.Errorf("Expected idle workers to retire, still have %d", count)
	}

	close(stopChan)
	wg.Wait()
}
