package repository

import (
	"context"
	"errors"

	"eshop/internal/domain/model"
)

var ErrSessionNotFound = errors.New("session not found")

// user_sessionsの保存・検索・削除
type SessionRepository interface {
	Create(ctx context.Context, session *model.UserSession) error
	FindByToken(ctx context.Context, token string) (*model.UserSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
