package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/TrainingBot/internal/api"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/jobModel"
	"github.com/akolanti/TrainingBot/internal/job"
	"github.com/akolanti/TrainingBot/internal/metrics"
	"github.com/akolanti/TrainingBot/internal/rag"
	"github.com/akolanti/TrainingBot/internal/tts"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service     *job.Service
	ragService  rag.Service
	synthesizer *tts.Synthesizer
}

func InitJobHandler(jobService *job.Service, ragService rag.Service, synthesizer *tts.Synthesizer) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:     jobService,
			ragService:  ragService,
			synthesizer: synthesizer,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
	if newJob.isNewChat {
		logJH.Info("Create new chat")
		handlerInstance.initNewChat(newJob.chatId, newJob.traceId)
	}
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateAnswerRequest(req api.AnswerRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug("Validating answer request", "chatId", req.ChatID)
	if req.Question == "" {
		return false
	}
	if req.ChatID == "" {
		return true
	}
	return handlerInstance.service.MessageStore.ValidateChatId(context.Background(), req.ChatID)
}

func ValidateSummaryRequest(req api.SummaryRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if req.ChatID == "" {
		return true
	}
	return handlerInstance.service.MessageStore.ValidateChatId(context.Background(), req.ChatID)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = newJob.jobType

	switch newJob.jobType {
	case jobModel.JobTypeIngest:
		_job.CurrentStep = jobModel.IngestInit
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestURL = newJob.documentSource

	case jobModel.JobTypeSummary:
		_job.ChatId = newJob.chatId
		_job.JobPayload.Language = newJob.language
		_job.CurrentStep = jobModel.UserQueryInit

	default:
		_job.ChatId = newJob.chatId
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.Language = newJob.language
		_job.CurrentStep = jobModel.UserQueryInit
	}

	//metrics
	metrics.IncrementJobsInQueue()

	_job.Status = jobModel.JobStatusQueued
	if err := h.service.JobStore.SaveJob(
		context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId), _job); err != nil {
		logJH.Error("Failed to record queued job", "err", err)
	}

	h.service.JobChannel <- _job //blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//a new worker is added every N requests, and always for ingestion:
	//ingestion batch-embeds a whole document, which can take a while
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

func (h *JobHandler) initNewChat(chatId string, traceId string) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	err := h.service.MessageStore.InitNewChat(ctxC, chatId)
	if err != nil {
		logJH.Error("Error initiating new chat", chatId, err)
		return
	}
}
