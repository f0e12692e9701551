package handler

import (
	"errors"
	"strconv"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	cartCookie   = "cart"
	lastOrderKey = "last_order_id"
)

type StoreHandler struct {
	catalog  service.CatalogService
	checkout service.CheckoutService
	orders   service.OrderService
	sessions *session.Store
}

func NewStoreHandler(
	catalog service.CatalogService,
	checkout service.CheckoutService,
	orders service.OrderService,
	sessions *session.Store,
) *StoreHandler {
	return &StoreHandler{catalog: catalog, checkout: checkout, orders: orders, sessions: sessions}
}

// ---- cart cookie helpers ----

func readCart(c *fiber.Ctx) cart.Cart {
	return cart.Decode(c.Cookies(cartCookie))
}

func writeCart(c *fiber.Ctx, crt cart.Cart) error {
	token, err := cart.Encode(crt)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     cartCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}

func dropCart(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cartCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err
}

// ---- storefront ----

// ListProducts handles GET / with optional search and category query params.
func (h *StoreHandler) ListProducts(c *fiber.Ctx) error {
	search := c.Query("search")
	category := c.Query("category")

	products, err := h.catalog.ListProducts(search, category)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"products": products, "search": search, "category": category})
}

func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// AddToCart handles POST /product/:id. The current name and price are
// snapshotted into the cart line; an existing line for the product is
// overwritten, not accumulated.
func (h *StoreHandler) AddToCart(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}

	qty, err := strconv.Atoi(c.FormValue("qty"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Quantity must be a number"})
	}
	if qty < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Quantity must be at least 1"})
	}

	crt := readCart(c)
	crt.Add(product.ID, product.Name, product.Price, qty)
	if err := writeCart(c, crt); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Added to cart", "cart": crt, "total": crt.Total()})
}

func (h *StoreHandler) GetCart(c *fiber.Ctx) error {
	crt := readCart(c)
	return c.JSON(fiber.Map{"cart": crt, "total": crt.Total()})
}

// UpdateCart handles POST /cart/update/:id. Quantity zero or below removes
// the line; non-numeric input is rejected.
func (h *StoreHandler) UpdateCart(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	qty, err := strconv.Atoi(c.FormValue("qty"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Quantity must be a number"})
	}

	crt := readCart(c)
	crt.Update(id, qty)
	if err := writeCart(c, crt); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"cart": crt, "total": crt.Total()})
}

func (h *StoreHandler) RemoveFromCart(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	crt := readCart(c)
	crt.Remove(id)
	if err := writeCart(c, crt); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"cart": crt, "total": crt.Total()})
}

func (h *StoreHandler) ClearCart(c *fiber.Ctx) error {
	dropCart(c)
	return c.JSON(fiber.Map{"message": "Cart cleared", "cart": cart.New(), "total": 0})
}

// ShowCheckout handles GET /checkout.
func (h *StoreHandler) ShowCheckout(c *fiber.Ctx) error {
	crt := readCart(c)
	if crt.Empty() {
		return c.Status(400).JSON(fiber.Map{"error": "Cart is empty"})
	}
	return c.JSON(fiber.Map{"cart": crt, "total": crt.Total()})
}

// Checkout handles the multipart POST /checkout submission.
func (h *StoreHandler) Checkout(c *fiber.Ctx) error {
	crt := readCart(c)

	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid form data"})
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Payment receipt is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Could not read receipt upload"})
	}
	defer file.Close()

	order, total, err := h.checkout.Checkout(crt, &req, file, fileHeader.Filename)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return c.Status(409).JSON(fiber.Map{"error": stockErr.Error(), "cart": crt, "total": crt.Total()})
		case errors.Is(err, service.ErrEmptyCart):
			return c.Status(400).JSON(fiber.Map{"error": "Cart is empty"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	dropCart(c)

	// The confirmation marker survives for exactly one follow-up request.
	if sess, serr := h.sessions.Get(c); serr == nil {
		sess.Set(lastOrderKey, order.ID)
		if err := sess.Save(); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message":  "Order placed",
		"order":    order,
		"total":    total,
		"redirect": "/success",
	})
}

// Success handles GET /success, the one-shot order confirmation view.
func (h *StoreHandler) Success(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
	}

	raw := sess.Get(lastOrderKey)
	orderID, ok := raw.(uint)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "No recent order"})
	}

	sess.Delete(lastOrderKey)
	if err := sess.Save(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
	}

	order, total, err := h.orders.GetOrder(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}

	return c.JSON(fiber.Map{"order": order, "total": total})
}

// TrackOrder handles GET|POST /track-order. The order number arrives as a
// form field on POST or a query param on GET.
func (h *StoreHandler) TrackOrder(c *fiber.Ctx) error {
	orderNo := c.FormValue("order_no")
	if orderNo == "" {
		orderNo = c.Query("order_no")
	}
	if orderNo == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Order number is required"})
	}

	order, items, total, err := h.orders.Track(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Order number not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"order": order, "items": items, "total": total})
}
