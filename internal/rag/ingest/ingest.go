package ingest

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/akolanti/TrainingBot/internal/adapter/utils"
	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/chunker"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

// ErrExtraction means the source document could not be parsed into text.
var ErrExtraction = errors.New("ingest: document extraction failed")

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// ExtractText pulls the text of every page in page order, joined with a
// newline separator. A parseable document with zero extractable pages
// yields an empty string, not an error.
func ExtractText(path string) (string, error) {
	docType := getDocType(path)
	logger.Debug("Extracting document", "path", path, "type", docType)

	var pages []rawPage
	var err error
	switch docType {
	case commonModels.PDF:
		pages, err = extractPDF(path)
	case commonModels.DOCX:
		pages, err = extractdocxTxtRtf(path)
	default:
		return "", ErrExtraction
	}
	if err != nil {
		return "", err
	}

	contents := make([]string, 0, len(pages))
	for _, p := range pages {
		contents = append(contents, p.Content)
	}
	return strings.Join(contents, "\n"), nil
}

// PrepareChunks windows the document text and wraps each window with its
// document metadata for indexing.
func PrepareChunks(text string, doc commonModels.Document) ([]commonModels.DocChunk, error) {
	windows, err := chunker.Split(text, config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	chunks := make([]commonModels.DocChunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, commonModels.DocChunk{
			Doc:            doc,
			ChunkId:        utils.GetNewUUID(),
			Chunk:          w.Text,
			Offset:         w.Offset,
			ChunkOrder:     i,
			EmbeddingModel: config.EmbeddingModel,
		})
	}
	return chunks, nil
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}
