package repository

import (
	"context"

	"shoplite/internal/domain/model"
)

// 保存・取得を約束。
// 見つからないときはエラーにせず (nil, nil) を返し、呼び出し側は user == nil で判定する。
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>アクティブかどうか・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
}
