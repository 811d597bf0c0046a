package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderapi/internal/domain/model"
	repo "orderapi/internal/repository"

	"github.com/rs/zerolog"
)

const (
	msgUserNotRegistered = "User not registered"
	msgOrderNotFound     = "Order not found"
	msgAddressRequired   = "Address is required"
	msgItemNameRequired  = "Item name is required"
)

type OrderUsecase struct {
	orders repo.OrderRepository
	users  repo.UserRepository
	events OrderEventPublisher
	idGen  IDGenerator
	clock  Clock
	log    zerolog.Logger
}

// DI
func NewOrderUsecase(
	orders repo.OrderRepository,
	users repo.UserRepository,
	events OrderEventPublisher,
	idGen IDGenerator,
	clock Clock,
	log zerolog.Logger,
) *OrderUsecase {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderUsecase{
		orders: orders,
		users:  users,
		events: events,
		idGen:  idGen,
		clock:  clock,
		log:    log,
	}
}

type UpsertOrderInput struct {
	ID      string
	Address string
	Items   []model.OrderItem
}

type OrderItemOutput struct {
	Name string `json:"name"`
}

// POSTの返却（userはIDのまま）
type OrderOutput struct {
	ID      string            `json:"_id"`
	User    int64             `json:"user"`
	Address string            `json:"address"`
	Items   []OrderItemOutput `json:"items"`
	Date    time.Time         `json:"date"`
}

type OrderUserOutput struct {
	ID    int64  `json:"_id"`
	Email string `json:"email"`
}

// GETの返却（userにemailを付ける）
type OrderViewOutput struct {
	ID      string            `json:"_id"`
	User    OrderUserOutput   `json:"user"`
	Address string            `json:"address"`
	Items   []OrderItemOutput `json:"items"`
	Date    time.Time         `json:"date"`
}

// Upsert は注文の作成 or 更新。
// in.IDの注文が存在すれば、呼び出しユーザーの注文のaddressを更新する。
// 更新対象が無いときはnullではなく400 "Order not found"を返す。
// IDが無い/見つからない/ObjectIDでない場合は新規作成。addressは入力のまま保存する。
func (u *OrderUsecase) Upsert(ctx context.Context, userID int64, in UpsertOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	address := in.Address
	if errs := validateOrderInput(address, in.Items); len(errs) > 0 {
		return OrderOutput{}, NewValidationError(errs...)
	}

	//注文者が登録済みか
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return OrderOutput{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return OrderOutput{}, NewValidationError(FieldError{Msg: msgUserNotRegistered})
	}

	//既存注文があれば更新
	if id := strings.TrimSpace(in.ID); id != "" {
		_, err := u.orders.FindByID(ctx, id)
		switch {
		case err == nil:
			//存在確認は注文IDだが、更新はuserで一致させる
			updated, err := u.orders.UpdateByUserID(ctx, userID, address)
			if errors.Is(err, repo.ErrNotFound) {
				return OrderOutput{}, NewHTTPError(http.StatusBadRequest, msgOrderNotFound)
			}
			if err != nil {
				return OrderOutput{}, fmt.Errorf("update order: %w", err)
			}
			u.publish(ctx, model.OrderEventUpdated, updated.ID.Hex(), userID)
			return toOrderOutput(updated), nil
		case errors.Is(err, repo.ErrNotFound):
			// 新規作成へ
		default:
			return OrderOutput{}, fmt.Errorf("find order: %w", err)
		}
	}

	items := in.Items
	if items == nil {
		items = []model.OrderItem{}
	}

	created, err := u.orders.Create(ctx, model.Order{
		UserID:  userID,
		Address: address,
		Items:   items,
		Date:    u.clock.Now(),
	})
	if err != nil {
		return OrderOutput{}, fmt.Errorf("create order: %w", err)
	}

	u.publish(ctx, model.OrderEventCreated, created.ID.Hex(), userID)
	return toOrderOutput(created), nil
}

// 全注文（emailつき）
func (u *OrderUsecase) List(ctx context.Context) ([]OrderViewOutput, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return []OrderViewOutput{}, fmt.Errorf("list orders: %w", err)
	}

	emails, err := u.emailsFor(ctx, orders)
	if err != nil {
		return []OrderViewOutput{}, err
	}

	outs := make([]OrderViewOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderViewOutput(o, emails[o.UserID]))
	}
	return outs, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID string) (OrderViewOutput, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderViewOutput{}, NewHTTPError(http.StatusBadRequest, msgOrderNotFound)
	}
	if err != nil {
		return OrderViewOutput{}, fmt.Errorf("find order: %w", err)
	}

	emails, err := u.emailsFor(ctx, []model.Order{o})
	if err != nil {
		return OrderViewOutput{}, err
	}
	return toOrderViewOutput(o, emails[o.UserID]), nil
}

// 対象がなくても成功
func (u *OrderUsecase) Delete(ctx context.Context, userID int64, orderID string) error {
	deleted, err := u.orders.Delete(ctx, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if deleted {
		u.publish(ctx, model.OrderEventDeleted, orderID, userID)
	}
	return nil
}

// 注文のuser IDをまとめてemailに引く
func (u *OrderUsecase) emailsFor(ctx context.Context, orders []model.Order) (map[int64]string, error) {
	seen := make(map[int64]struct{}, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}

	emails := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}

	users, err := u.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for _, usr := range users {
		emails[usr.ID] = usr.Email
	}
	return emails, nil
}

// イベント送信は失敗してもリクエストは成功扱い
func (u *OrderUsecase) publish(ctx context.Context, typ model.OrderEventType, orderID string, userID int64) {
	evt := model.OrderEvent{
		EventID:    u.idGen.NewID(),
		Type:       typ,
		OrderID:    orderID,
		UserID:     userID,
		OccurredAt: u.clock.Now(),
	}
	if err := u.events.PublishOrderEvent(ctx, evt); err != nil {
		u.log.Warn().Err(err).
			Str("event_type", string(typ)).
			Str("order_id", orderID).
			Msg("order event publish failed")
	}
}

func validateOrderInput(address string, items []model.OrderItem) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(address) == "" {
		errs = append(errs, FieldError{Msg: msgAddressRequired, Param: "address", Location: "body"})
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, FieldError{
				Msg:      msgItemNameRequired,
				Param:    fmt.Sprintf("items[%d].name", i),
				Location: "body",
			})
		}
	}
	return errs
}

func toItemOutputs(items []model.OrderItem) []OrderItemOutput {
	out := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItemOutput{Name: it.Name})
	}
	return out
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:      o.ID.Hex(),
		User:    o.UserID,
		Address: o.Address,
		Items:   toItemOutputs(o.Items),
		Date:    o.Date,
	}
}

func toOrderViewOutput(o model.Order, email string) OrderViewOutput {
	return OrderViewOutput{
		ID:      o.ID.Hex(),
		User:    OrderUserOutput{ID: o.UserID, Email: email},
		Address: o.Address,
		Items:   toItemOutputs(o.Items),
		Date:    o.Date,
	}
}
