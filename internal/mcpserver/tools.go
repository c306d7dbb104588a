package mcpserver

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested document"`
	Language string `json:"language,omitempty" jsonschema:"response language: English, Hindi or Telugu (default English)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string `json:"answer"`
	Language string `json:"language"`
}

// SummarizeInput is the input schema for the summarize tool.
type SummarizeInput struct {
	Language string `json:"language,omitempty" jsonschema:"summary language: English, Hindi or Telugu (default English)"`
}

// SummarizeOutput is the output schema for the summarize tool.
type SummarizeOutput struct {
	Summary  string `json:"summary"`
	Language string `json:"language"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	FilePath string `json:"file_path" jsonschema:"path to the document to ingest (pdf, docx or txt)"`
	Name     string `json:"name,omitempty" jsonschema:"display name of the document"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Message string `json:"message"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the ingested training document",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarize the ingested training document",
	}, s.handleSummarize)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a local document into the knowledge base",
	}, s.handleIngest)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	lang, _ := commonModels.ParseLanguage(input.Language)

	answer := s.ragService.Answer(ctx, input.Question, lang)
	return nil, AskOutput{
		Answer:   answer,
		Language: lang.String(),
	}, nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	lang, _ := commonModels.ParseLanguage(input.Language)

	summary := s.ragService.Summarize(ctx, lang)
	return nil, SummarizeOutput{
		Summary:  summary,
		Language: lang.String(),
	}, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	name := input.Name
	if name == "" {
		name = input.FilePath
	}

	// Ingest consumes the path it is given, so the caller's document is
	// staged into a temp copy first.
	staged, err := stageCopy(input.FilePath)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	message, err := s.ragService.Ingest(ctx, staged, name)
	if err != nil {
		os.Remove(staged)
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{Message: message}, nil
}

func stageCopy(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "ingest-*"+filepath.Ext(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
