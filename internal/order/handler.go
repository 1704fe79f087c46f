package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"storefront-backend/internal/user"
)

// Handler maps the order workflow onto HTTP routes. Identity comes from the
// JWT claims placed in the request context by the auth middleware.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.placeOrder)
	app.Get("/api/v1/orders/myorders", h.getMyOrders)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOrder)
	app.Get("/api/v1/orders", h.getOrders)
	app.Put("/api/v1/orders/:id<[0-9]+>/pay", h.markPaid)
	app.Put("/api/v1/orders/:id<[0-9]+>/deliver", h.markDelivered)
}

type placeOrderRequest struct {
	Items           []RequestedItem `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	payload := new(placeOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	created, err := h.service.PlaceOrder(PlaceOrderInput{
		UserID:          userID,
		Items:           payload.Items,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		TaxPrice:        payload.TaxPrice,
		ShippingPrice:   payload.ShippingPrice,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.Get(orderID, userID, user.GetIsAdminFromCtx(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ord)
}

func (h *Handler) getMyOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	if !user.GetIsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not authorized as admin"})
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) markPaid(c *fiber.Ctx) error {
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	result := PaymentResult{}
	if err := c.BodyParser(&result); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.MarkPaid(orderID, result)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ord)
}

func (h *Handler) markDelivered(c *fiber.Ctx) error {
	if !user.GetIsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not authorized as admin"})
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	ord, err := h.service.MarkDelivered(orderID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(ord)
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	var notFound *ProductNotFoundError
	var noStock *InsufficientStockError
	var invalid *ValidationError

	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error(), "productId": notFound.ProductID})
	case errors.As(err, &noStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error(), "productId": noStock.ProductID})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, ErrNotAuthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "not authorized"})
	case errors.Is(err, ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
