package auth

import (
	"context"
	"errors"
	"strings"

	"eshop/internal/repository"
)

var ErrMissingSessionToken = errors.New("session token required")

// ログアウトはセッション行を消すだけ。
// ゲストカートのリセットは /cart/guest/reset が別で担当する。
type LogoutUsecase struct {
	sessionRepo repository.SessionRepository
}

func NewLogoutUsecase(sessionRepo repository.SessionRepository) *LogoutUsecase {
	return &LogoutUsecase{sessionRepo: sessionRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, sessionToken string) error {
	token := strings.TrimSpace(sessionToken)
	if token == "" {
		return ErrMissingSessionToken
	}

	return u.sessionRepo.DeleteByToken(ctx, token)
}

// 全デバイスからログアウト。ユーザーのセッション行を全部消す。
func (u *LogoutUsecase) ExecuteAll(ctx context.Context, userID int64) error {
	return u.sessionRepo.DeleteAllByUserID(ctx, userID)
}
