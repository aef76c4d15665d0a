package chat

import (
	"context"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/observability"
	"go.uber.org/zap"
)

type Service interface {
	Relay(ctx context.Context, sess domain.Session, history []domain.ChatMessage) (*domain.ChatMessage, error)
}

type completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

type service struct {
	llm     completer
	metrics *observability.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(llm completer, metrics *observability.Metrics, log *zap.Logger) Service {
	return &service{
		llm:     llm,
		metrics: metrics,
		log:     log.With(zap.String("service", "chat")),
		now:     time.Now,
	}
}

// Relay sends history, behind the fixed system instruction, to the model and
// returns its reply as an assistant turn.
func (s *service) Relay(ctx context.Context, sess domain.Session, history []domain.ChatMessage) (*domain.ChatMessage, error) {
	if !domain.HasUserTurn(history) {
		return nil, domain.ErrInvalidInput
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		// Callers cannot inject their own system turns.
		if m.Role == domain.RoleSystem {
			m.Role = domain.RoleAssistant
		}
		messages = append(messages, m)
	}

	start := s.now()
	reply, err := s.llm.Complete(ctx, messages)
	s.metrics.ObserveRelay(s.now().Sub(start), err)
	if err != nil {
		s.log.Warn("chat relay failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, err
	}
	return &domain.ChatMessage{Role: domain.RoleAssistant, Content: reply}, nil
}
