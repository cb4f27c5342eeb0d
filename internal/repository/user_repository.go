package repository

import (
	"context"

	"app/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。見つからなければnil。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。見つからなければnil。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最終ログインなどの更新
	Update(ctx context.Context, user *model.User) error
}
