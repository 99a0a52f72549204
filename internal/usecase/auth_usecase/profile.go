package auth

import (
	"context"

	"eshop/internal/domain/model"
	"eshop/internal/repository"
)

// 自分のプロフィール取得
type ProfileUsecase struct {
	userRepo repository.UserRepository
}

// DI
func NewProfileUsecase(userRepo repository.UserRepository) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo}
}

func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	// ハッシュは返さない
	safeUser := *user
	safeUser.PasswordHash = ""
	return safeUser, nil
}
