package worker

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	jobmodel "github.com/akolanti/TrainingBot/internal/domain/jobModel"
	"github.com/akolanti/TrainingBot/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 60*time.Second)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job.CurrentStep = jobmodel.IngestProcessing
		job = ingestDocument(ctx, job)

	case jobmodel.JobTypeSummary:
		job.CurrentStep = jobmodel.RAGCall
		job.JobPayload.Answer = _ragService.Summarize(ctx, job.JobPayload.Language)
		job.CurrentStep = jobmodel.Complete
		appendHistory(ctx, job, nil)

	default:
		job.CurrentStep = jobmodel.RAGCall
		job.JobPayload.Answer = _ragService.Answer(ctx, job.JobPayload.Question, job.JobPayload.Language)
		job.CurrentStep = jobmodel.Complete
		userTurn := &commonModels.ChatTurn{
			Role:      commonModels.RoleUser,
			Content:   job.JobPayload.Question,
			Timestamp: time.Now().Format(time.RFC3339),
		}
		appendHistory(ctx, job, userTurn)
	}

	job.EndTime = time.Now()
	finalStatus := jobmodel.JobStatusComplete
	if job.Status == jobmodel.JobStatusError {
		finalStatus = jobmodel.JobStatusError
	}
	saveJobState(ctx, job, finalStatus)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func ingestDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job {
	message, err := _ragService.Ingest(ctx, job.JobPayload.IngestURL, job.JobPayload.IngestFileName)
	if err != nil {
		logger.Error("Document ingestion failed", "jobId", job.Id, "err", err)
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{
			Code:    http.StatusInternalServerError,
			Message: "Document ingestion failed",
			Retry:   true,
		}
		return job
	}
	job.JobPayload.Answer = message
	job.CurrentStep = jobmodel.Complete
	return job
}

// appendHistory records the finished exchange. Generation failures are
// bundled into the answer text, so they land in the history too, same
// as the user saw them.
func appendHistory(ctx context.Context, job jobmodel.Job, userTurn *commonModels.ChatTurn) {
	if job.ChatId == "" {
		return
	}
	job.CurrentStep = jobmodel.HistoryCall

	turns := make([]commonModels.ChatTurn, 0, 2)
	if userTurn != nil {
		turns = append(turns, *userTurn)
	}
	turns = append(turns, commonModels.ChatTurn{
		Role:      commonModels.RoleAssistant,
		Content:   job.JobPayload.Answer,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	if err := _jobService.MessageStore.AppendTurns(ctx, job.ChatId, turns); err != nil {
		logger.Error("Failed to save chat history", "err", err)
	}
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
