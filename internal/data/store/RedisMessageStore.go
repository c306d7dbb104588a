package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/data/redisStore"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisMessageStore(ctx context.Context) *RedisMessageStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisMessageStore)
	if backing == nil {
		return nil
	}
	return &RedisMessageStore{
		store:  backing,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	isFound, err := s.store.Exists(ctx, chatId)
	if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil {
		log.Error("Error clearing previous chat", "error", err)
		return err
	}
	opening := commonModels.ChatTurn{Role: commonModels.RoleSystem, Content: "session start"}
	return s.pushTurns(ctx, id, []commonModels.ChatTurn{opening})
}

func (s *RedisMessageStore) AppendTurns(ctx context.Context, id string, turns []commonModels.ChatTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		err := errors.New("invalid chat id")
		log.Error("Failed validation before saving", "err", err)
		return err
	}
	return s.pushTurns(ctx, id, turns)
}

func (s *RedisMessageStore) pushTurns(ctx context.Context, id string, turns []commonModels.ChatTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			log.Error("Error marshalling turn", "error", err)
			return err
		}
		if err := s.store.RPush(ctx, id, data); err != nil {
			log.Error("Error saving chat", "error", err)
			return err
		}
	}
	if err := s.store.Expire(ctx, id, config.RedisMessageStoreTTL); err != nil {
		log.Error("Error refreshing chat TTL", "error", err)
	}
	log.Debug("Saved chat turns", "count", len(turns))
	return nil
}

func (s *RedisMessageStore) GetHistory(ctx context.Context, chatId string) ([]commonModels.ChatTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("Getting message history")

	raw, err := s.store.LRangeAll(ctx, chatId)
	if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	turns := make([]commonModels.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn commonModels.ChatTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			log.Error("Skipping malformed turn", "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisMessageStore) ClearChat(ctx context.Context, chatId string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	if err := s.store.Del(ctx, chatId); err != nil {
		log.Error("Error clearing chat", "error", err)
		return err
	}
	log.Debug("Chat cleared")
	return nil
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
