package repository

import (
	"context"

	"orderapi/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければ (nil, nil)
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	// 複数IDをまとめて取得（注文一覧のemail付与用）
	FindByIDs(ctx context.Context, userIDs []int64) ([]model.User, error)
	//メールからユーザーを一件取得する。無ければ (nil, nil)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// 最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
}
