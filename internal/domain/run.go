package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — однократное выполнение pipeline.
//
// Run живёт только в памяти процесса: создаётся при запуске,
// заполняется по мере выполнения шагов и теряется при выходе.
type Run struct {
	// ID — уникальный идентификатор run (попадает в логи и трейсы).
	ID uuid.UUID `json:"id"`

	// Pipeline — имя выполняемого pipeline.
	Pipeline string `json:"pipeline"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// Stages — результаты выполненных шагов в порядке выполнения.
	Stages []StageResult `json:"stages"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения (успешного или с ошибкой).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`
}

// StageResult — результат выполнения одного шага.
type StageResult struct {
	StepID   string        `json:"step_id"`
	Type     string        `json:"type"`
	Status   StageStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// NewRun создаёт run в статусе PENDING.
func NewRun(pipeline string) *Run {
	return &Run{
		ID:       uuid.New(),
		Pipeline: pipeline,
		Status:   RunStatusPending,
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if !r.IsFinished() || r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded() {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с ошибкой.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}

// AddStage добавляет результат шага.
func (r *Run) AddStage(s StageResult) {
	r.Stages = append(r.Stages, s)
}
