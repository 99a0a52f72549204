package model

// リクエストの呼び出し元。ログイン済みなら UserID、未ログインなら GuestToken。
// TokenStale はBearerが無効/期限切れだったとき（ゲスト扱いで続行するが呼び出し側に知らせる）。
type Identity struct {
	UserID     int64
	GuestToken string
	TokenStale bool
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID > 0
}
