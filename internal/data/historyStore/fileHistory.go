package historyStore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

// FileHistoryStore keeps one JSON file per chat under a history
// directory. The whole conversation is rewritten after every append so
// the file on disk is always a complete, well-formed JSON array.
type FileHistoryStore struct {
	dir    string
	mu     *sync.RWMutex
	logger *logger_i.Logger
}

func GetFileHistoryStore() (*FileHistoryStore, error) {
	return NewFileHistoryStore(config.ChatHistoryDir)
}

func NewFileHistoryStore(dir string) (*FileHistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileHistoryStore{
		dir:    dir,
		mu:     new(sync.RWMutex),
		logger: logger_i.NewLogger("FileHistory"),
	}, nil
}

func (s *FileHistoryStore) chatPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileHistoryStore) ValidateChatId(ctx context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.chatPath(id))
	return err == nil
}

func (s *FileHistoryStore) InitNewChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("Initializing new chat", "chatId", id)
	return s.flush(id, []commonModels.ChatTurn{})
}

func (s *FileHistoryStore) AppendTurns(ctx context.Context, id string, turns []commonModels.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(id)
	if err != nil {
		return err
	}
	return s.flush(id, append(existing, turns...))
}

func (s *FileHistoryStore) GetHistory(ctx context.Context, id string) ([]commonModels.ChatTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileHistoryStore) ClearChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.chatPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		s.logger.Error("Error clearing chat", "chatId", id, "error", err)
		return err
	}
	s.logger.Debug("Chat cleared", "chatId", id)
	return nil
}

func (s *FileHistoryStore) read(id string) ([]commonModels.ChatTurn, error) {
	data, err := os.ReadFile(s.chatPath(id))
	if os.IsNotExist(err) {
		return []commonModels.ChatTurn{}, nil
	}
	if err != nil {
		return nil, err
	}

	var turns []commonModels.ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		s.logger.Error("Corrupt history file, starting fresh", "chatId", id, "error", err)
		return []commonModels.ChatTurn{}, nil
	}
	return turns, nil
}

// flush rewrites the full conversation through a temp file so a crash
// mid-write never leaves a truncated history behind.
func (s *FileHistoryStore) flush(id string, turns []commonModels.ChatTurn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, id+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.chatPath(id))
}
