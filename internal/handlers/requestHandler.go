package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/TrainingBot/internal/adapter"
	"github.com/akolanti/TrainingBot/internal/adapter/utils"
	"github.com/akolanti/TrainingBot/internal/api"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/domain/jobModel"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var logRH *logger_i.Logger

// carries everything needed to enqueue one job
type newJobData struct {
	id             string
	chatId         string
	question       string
	language       commonModels.Language
	isNewChat      bool
	traceId        string
	jobType        jobModel.JobType
	documentName   string
	documentSource string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AnswerHandler accepts a question plus a response language, queues a
// generation job and returns the job id to poll.
func AnswerHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.AnswerRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateAnswerRequest(requestData) {
		logRH.Warn("Bad Answer Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
		return
	}

	lang, known := commonModels.ParseLanguage(requestData.Language)
	if !known {
		logRH.Warn("Unknown language, defaulting to English", "language", requestData.Language)
	}

	enqueue(request, w, jobModel.JobTypeQuery, requestData.ChatID, requestData.Question, lang, "", "")
}

// SummaryHandler queues a whole-document summary job in the requested
// language.
func SummaryHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.SummaryRequest
	defer closeBody(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateSummaryRequest(requestData) {
		logRH.Warn("Bad Summary Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
		return
	}

	lang, _ := commonModels.ParseLanguage(requestData.Language)
	enqueue(request, w, jobModel.JobTypeSummary, requestData.ChatID, "", lang, "", "")
}

func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler receives a document via multipart/form-data, saves
// it to a temporary directory and queues an ingestion job.
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	enqueue(r, w, jobModel.JobTypeIngest, "", "", commonModels.English, docName, tempFilePath)
}

// HistoryHandler returns the full stored conversation for a chat.
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	chatId := utils.GetChiURLParam(r, "chatId")
	if chatId == "" || !handlerInstance.service.MessageStore.ValidateChatId(r.Context(), chatId) {
		WriteErrorResponse(w, http.StatusNotFound, chatId, "Chat not found")
		return
	}

	turns, err := handlerInstance.service.MessageStore.GetHistory(r.Context(), chatId)
	if err != nil {
		logRH.Error("Failed to load history", "chatId", chatId, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Could not load history")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToHistoryResponse(chatId, turns))
}

// ClearSessionHandler deletes a chat's stored history.
func ClearSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	chatId := utils.GetChiURLParam(r, "chatId")
	if chatId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "chatId is required")
		return
	}
	if err := handlerInstance.service.MessageStore.ClearChat(r.Context(), chatId); err != nil {
		logRH.Error("Failed to clear session", "chatId", chatId, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, chatId, "Could not clear session")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "Session cleared."})
}

// ClearCacheHandler drops every cached response. This is the escape
// hatch for stale answers after the underlying document changed.
func ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	if err := handlerInstance.ragService.ClearCache(); err != nil {
		logRH.Error("Failed to clear response cache", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not clear cache")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.MessageResponse{Message: "Response cache cleared."})
}

// SpeechHandler renders the given text to an mp3 using the host speech
// tools and returns the file path.
func SpeechHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.SpeechRequest
	defer closeBody(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Text == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "text is required")
		return
	}

	lang, _ := commonModels.ParseLanguage(requestData.Language)
	audioPath, err := handlerInstance.synthesizer.Synthesize(r.Context(), requestData.Text, lang, utils.GetNewUUID())
	if err != nil {
		logRH.Error("Speech synthesis failed", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Speech synthesis failed")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.SpeechResponse{AudioPath: audioPath})
}
