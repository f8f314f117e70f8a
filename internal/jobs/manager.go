// Package jobs は非同期メンテナンスジョブの投入と状態管理を提供します。
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	taskTypePhotoCleanup = "photo:cleanup"

	queueMaintenance = "maintenance"
)

// FileRemover は掃除対象ファイルの削除を実装します。
type FileRemover interface {
	Remove(name string) error
}

// Manager はジョブの投入と状態管理を担います。
type Manager struct {
	client  *asynq.Client
	server  *asynq.Server
	mux     *asynq.ServeMux
	store   *Store
	remover FileRemover
	logger  *log.Logger
}

// photoCleanupPayload は写真掃除ジョブのペイロードです。
type photoCleanupPayload struct {
	JobID string `json:"jobId"`
	Photo string `json:"photo"`
}

// NewManager は Manager を初期化します。
func NewManager(queueRedisURL string, store *Store, remover FileRemover, logger *log.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if remover == nil {
		return nil, errors.New("remover is nil")
	}
	opt, err := asynq.ParseRedisURI(queueRedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := asynq.NewClient(opt)
	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				queueMaintenance: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	manager := &Manager{
		client:  client,
		server:  server,
		mux:     mux,
		store:   store,
		remover: remover,
		logger:  logger,
	}
	mux.HandleFunc(taskTypePhotoCleanup, manager.handlePhotoCleanup)
	return manager, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (m *Manager) StartWorkers() {
	go func() {
		if err := m.server.Run(m.mux); err != nil && err != asynq.ErrServerClosed {
			if m.logger != nil {
				m.logger.Printf("asynq server stopped with error: %v", err)
			} else {
				log.Printf("asynq server stopped with error: %v", err)
			}
		}
	}()
}

// Shutdown はサーバーとクライアントを閉じます。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.server.Shutdown()
	m.client.Close()
	return nil
}

// EnqueuePhotoCleanup は不要になった写真ファイルの削除ジョブを投入します。
func (m *Manager) EnqueuePhotoCleanup(ctx context.Context, photo string) error {
	if photo == "" {
		return fmt.Errorf("photo is required")
	}

	payload := &photoCleanupPayload{
		JobID: uuid.NewString(),
		Photo: photo,
	}
	record := &Record{
		JobID:     payload.JobID,
		Operation: taskTypePhotoCleanup,
		Target:    photo,
		Status:    StatusQueued,
	}
	if err := m.store.Upsert(ctx, record); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(taskTypePhotoCleanup, body, asynq.Queue(queueMaintenance))
	if _, err := m.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return err
	}
	return nil
}

// GetRecord はジョブ情報を取得します。
func (m *Manager) GetRecord(ctx context.Context, jobID string) (*Record, error) {
	return m.store.Get(ctx, jobID)
}

func (m *Manager) handlePhotoCleanup(ctx context.Context, task *asynq.Task) error {
	var payload photoCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	if payload.JobID == "" {
		return fmt.Errorf("missing jobId in payload")
	}

	if err := m.store.Upsert(ctx, &Record{
		JobID:     payload.JobID,
		Operation: taskTypePhotoCleanup,
		Target:    payload.Photo,
		Status:    StatusRunning,
	}); err != nil {
		return err
	}

	if err := m.remover.Remove(payload.Photo); err != nil {
		if markErr := m.store.MarkFailed(ctx, payload.JobID, &ErrorInfo{
			Code:    "CLEANUP_FAILED",
			Message: err.Error(),
		}); markErr != nil && m.logger != nil {
			m.logger.Printf("failed to mark job failed job=%s: %v", payload.JobID, markErr)
		}
		return err
	}
	return m.store.MarkDone(ctx, payload.JobID)
}
