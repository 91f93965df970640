package session

import (
	"sync"

	"shoplite/internal/domain/cart"
)

// Session は1ユーザー分のセッション状態（カート＋決済トラッカー）。
// CartとPaymentの書き込みはmuを取ってから行う。
// submitting は注文送信の多重実行防止ラッチ（二重クリック対策）。
type Session struct {
	mu         sync.Mutex
	Cart       *cart.Cart
	Payment    *cart.PaymentTracker
	submitting bool
}

func newSession() *Session {
	return &Session{
		Cart:    cart.New(),
		Payment: cart.NewPaymentTracker(),
	}
}

// WithLock はセッション状態への排他アクセスを提供する。
func (s *Session) WithLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// BeginSubmit は送信ラッチを取得する。既に送信中ならfalse。
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit はラッチを解放する（成功・失敗どちらでも呼ぶ）。
func (s *Session) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Store はユーザーIDごとのセッションを保持するレジストリ。
// グローバル変数にはせず、main.goで生成してusecaseに注入する。
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: map[int64]*Session{}}
}

// Get はユーザーのセッションを返す（無ければ作る）。
func (st *Store) Get(userID int64) *Session {
	st.mu.RLock()
	s, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[userID]; ok {
		return s
	}
	s = newSession()
	st.sessions[userID] = s
	return s
}

// Remove はセッションを破棄する（ログアウトなど）。
func (st *Store) Remove(userID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}
