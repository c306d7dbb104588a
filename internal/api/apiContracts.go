package api

import (
	"time"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
	Language string `json:"language"`
}

type Result struct {
	Status              string       `json:"status"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HistoryResponse struct {
	ChatId string                  `json:"chat_id"`
	Turns  []commonModels.ChatTurn `json:"turns"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SpeechResponse struct {
	AudioPath string `json:"audio_path"`
}

// requests---------------------

type AnswerRequest struct {
	Question string `json:"question" validate:"required"`
	Language string `json:"language,omitempty"`
	ChatID   string `json:"chatID,omitempty"`
}

type SummaryRequest struct {
	Language string `json:"language,omitempty"`
	ChatID   string `json:"chatID,omitempty"`
}

type SpeechRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language,omitempty"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
