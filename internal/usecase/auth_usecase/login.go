package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"eshop/internal/domain/model"
	"eshop/internal/repository"
)

// handlerからusecaseに渡す入力。
// GuestTokenはログイン前のゲストカートを畳み込むために使う。
type LoginInput struct {
	Email      string
	Password   string
	GuestToken string
}

type LoginOutput struct {
	User         model.User `json:"user"`
	SessionToken string     `json:"session_token"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid email or password")

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// ゲストカートをユーザーカートへ畳み込む約束
type CartMerger interface {
	MergeGuestIntoUser(ctx context.Context, guestToken string, userID int64) error
}

type LoginUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	verifier    PasswordVerifier
	merger      CartMerger
	clock       Clock
	sessionTTL  time.Duration
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	verifier PasswordVerifier,
	merger CartMerger,
	clock Clock,
	sessionTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		verifier:    verifier,
		merger:      merger,
		clock:       clock,
		sessionTTL:  sessionTTL,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//ゲストカートのマージ。トークンを返す前に必ず終わらせる
	//（直後のカート取得がマージ済みの状態を見られるように）
	if err := u.merger.MergeGuestIntoUser(ctx, in.GuestToken, user.ID); err != nil {
		return out, err
	}

	//セッショントークン発行（不透明トークン、user_sessionsに保存）
	plainToken, err := generateSecureToken(32)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	session := &model.UserSession{
		UserID:       user.ID,
		SessionToken: plainToken,
		ExpiresAt:    now.Add(u.sessionTTL),
		CreatedAt:    now,
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return out, err
	}

	//出力（ハッシュは返さない）
	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	out.SessionToken = plainToken
	out.ExpiresAt = session.ExpiresAt
	return out, nil
}

func generateSecureToken(numBytes int) (string, error) {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
