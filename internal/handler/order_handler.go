package handler

import (
	"net/http"

	"orderapi/internal/config"
	"orderapi/internal/domain/model"
	"orderapi/internal/middleware"
	"orderapi/internal/repository"
	"orderapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderItemRequest struct {
	Name string `json:"name" validate:"notblank"`
}

// _idがあれば更新、なければ作成
type OrderUpsertRequest struct {
	ID      string             `json:"_id"`
	Address string             `json:"address" validate:"notblank"`
	Items   []OrderItemRequest `json:"items" validate:"omitempty,dive"`
}

// /api/order のルートを登録
// 作成・削除は認証必須、参照は公開
func (h *OrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config, userRepo repository.UserRepository) {
	auth := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}

	g.POST("", h.upsert, auth...)
	g.GET("", h.list)
	g.GET("/:orderId", h.detail)
	g.DELETE("/:orderId", h.delete, auth...)
}

func (h *OrderHandler) upsert(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Msg: "unauthorized"})
	}

	var req OrderUpsertRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{Name: it.Name})
	}

	out, err := h.uc.Upsert(c.Request().Context(), userID, usecase.UpsertOrderInput{
		ID:      req.ID,
		Address: req.Address,
		Items:   items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Msg: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), userID, c.Param("orderId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "Order removed"})
}
