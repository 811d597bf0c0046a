package repository

import (
	"context"

	"orderapi/internal/domain/model"
)

// 注文の保存先（ドキュメントDB）
type OrderRepository interface {
	// 見つからない・IDが不正ならErrNotFound
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (model.Order, error)
	// userIDで一致した注文のaddress/userを上書きして更新後を返す
	UpdateByUserID(ctx context.Context, userID int64, address string) (model.Order, error)
	// 無くてもエラーにしない（消えたかどうかだけ返す）
	Delete(ctx context.Context, orderID string) (bool, error)
}
