package historyStore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

func TestMain(m *testing.M) {
	logger_i.Init()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *FileHistoryStore {
	t.Helper()
	s, err := NewFileHistoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func TestInitAndValidate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if s.ValidateChatId(ctx, "chat-1") {
		t.Fatal("unknown chat id validated")
	}
	if err := s.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat: %v", err)
	}
	if !s.ValidateChatId(ctx, "chat-1") {
		t.Fatal("initialized chat id not validated")
	}
}

func TestAppendAndGetHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat: %v", err)
	}

	first := []commonModels.ChatTurn{
		{Role: commonModels.RoleUser, Content: "how many leave days?"},
		{Role: commonModels.RoleAssistant, Content: "20 days per year."},
	}
	if err := s.AppendTurns(ctx, "chat-1", first); err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	second := []commonModels.ChatTurn{
		{Role: commonModels.RoleUser, Content: "and sick leave?"},
		{Role: commonModels.RoleAssistant, Content: "10 days."},
	}
	if err := s.AppendTurns(ctx, "chat-1", second); err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	turns, err := s.GetHistory(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Content != "how many leave days?" || turns[3].Content != "10 days." {
		t.Fatalf("turns out of order: %+v", turns)
	}
}

func TestFileHoldsCompleteConversation(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileHistoryStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	ctx := context.Background()

	if err := s.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat: %v", err)
	}
	turns := []commonModels.ChatTurn{
		{Role: commonModels.RoleUser, Content: "hello"},
		{Role: commonModels.RoleAssistant, Content: "hi"},
	}
	if err := s.AppendTurns(ctx, "chat-1", turns); err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "chat-1.json"))
	if err != nil {
		t.Fatalf("reading history file: %v", err)
	}
	var onDisk []commonModels.ChatTurn
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("history file is not a JSON array: %v", err)
	}
	if len(onDisk) != 2 {
		t.Fatalf("expected full conversation on disk, got %d turns", len(onDisk))
	}
}

func TestHistorySurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileHistoryStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := s1.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat: %v", err)
	}
	if err := s1.AppendTurns(ctx, "chat-1", []commonModels.ChatTurn{
		{Role: commonModels.RoleUser, Content: "persisted?"},
	}); err != nil {
		t.Fatalf("AppendTurns: %v", err)
	}

	s2, err := NewFileHistoryStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	turns, err := s2.GetHistory(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "persisted?" {
		t.Fatalf("history lost across restart: %+v", turns)
	}
}

func TestClearChatRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileHistoryStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	ctx := context.Background()

	if err := s.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat: %v", err)
	}
	if err := s.ClearChat(ctx, "chat-1"); err != nil {
		t.Fatalf("ClearChat: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "chat-1.json")); !os.IsNotExist(err) {
		t.Fatal("history file still present after clear")
	}
	if s.ValidateChatId(ctx, "chat-1") {
		t.Fatal("cleared chat id still validates")
	}

	// clearing an unknown chat is not an error
	if err := s.ClearChat(ctx, "never-existed"); err != nil {
		t.Fatalf("ClearChat on unknown id: %v", err)
	}
}
