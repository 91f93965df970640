package payment

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Simulator は開発・テスト用のプロバイダ実装。
// 外部接続なしで intent を採番してメモリに保持する。
// 作成したintentの照会は常に succeeded を返す。
type Simulator struct {
	mu      sync.Mutex
	seq     int64
	intents map[string]Intent
}

func NewSimulator() *Simulator {
	return &Simulator{intents: map[string]Intent{}}
}

func (s *Simulator) CreateIntent(_ context.Context, amount int64, currency string) (Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := fmt.Sprintf("pi_sim_%d_%d", time.Now().Unix(), s.seq)
	in := Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Currency:     currency,
		Status:       IntentStatusRequiresConfirmation,
	}
	s.intents[id] = in
	return in, nil
}

func (s *Simulator) RetrieveIntent(_ context.Context, intentID string) (Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[intentID]
	if !ok {
		return Intent{}, fmt.Errorf("payment provider: no such intent %s", intentID)
	}
	in.Status = IntentStatusSucceeded
	return in, nil
}
