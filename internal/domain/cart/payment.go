package cart

// PaymentStatus は1回のチェックアウトにおける決済の状態。
type PaymentStatus string

const (
	PaymentStatusIdle       PaymentStatus = "IDLE"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// PaymentTracker は決済のライフサイクルを追跡する。
// Idle → Processing → Succeeded | Failed、Resetでどこからでも Idle に戻る。
//
// 外部プロバイダのコールバックは非同期に遅れて届くことがあるため、
// 試行ごとに generation を採番し、Confirm / Fail は
// 「現在Processing かつ generation一致」のときだけ適用する。
// Reset後やリトライ後に届いた古いコールバックは状態を一切変えない。
type PaymentTracker struct {
	status       PaymentStatus
	errorMessage string
	reference    string
	generation   uint64
}

func NewPaymentTracker() *PaymentTracker {
	return &PaymentTracker{status: PaymentStatusIdle}
}

// StartProcessing は決済試行を開始し、その試行のgenerationを返す。
// Processing中の再開始は新しい試行を作らない（現在のgenerationを返す）。
func (t *PaymentTracker) StartProcessing() uint64 {
	if t.status == PaymentStatusProcessing {
		return t.generation
	}
	t.generation++
	t.status = PaymentStatusProcessing
	t.errorMessage = ""
	t.reference = ""
	return t.generation
}

// Confirm は成功コールバックを適用する。適用されたらtrue。
func (t *PaymentTracker) Confirm(gen uint64, reference string) bool {
	if t.status != PaymentStatusProcessing || gen != t.generation {
		return false
	}
	t.status = PaymentStatusSucceeded
	t.reference = reference
	t.errorMessage = ""
	return true
}

// Fail は失敗コールバックを適用する。適用されたらtrue。
func (t *PaymentTracker) Fail(gen uint64, message string) bool {
	if t.status != PaymentStatusProcessing || gen != t.generation {
		return false
	}
	t.status = PaymentStatusFailed
	t.errorMessage = message
	return true
}

// Reset は Idle に戻す（チェックアウト再入場・離脱時）。
// generationも進めるので、以後届く古いコールバックは無効になる。
func (t *PaymentTracker) Reset() {
	t.generation++
	t.status = PaymentStatusIdle
	t.errorMessage = ""
	t.reference = ""
}

func (t *PaymentTracker) Status() PaymentStatus {
	return t.status
}

func (t *PaymentTracker) Reference() string {
	return t.reference
}

func (t *PaymentTracker) ErrorMessage() string {
	return t.errorMessage
}

func (t *PaymentTracker) Generation() uint64 {
	return t.generation
}
