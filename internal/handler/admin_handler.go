package handler

import (
	"errors"
	"io"
	"strconv"

	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type AdminHandler struct {
	admins    service.AdminService
	inventory service.InventoryService
	orders    service.OrderService
	sessions  *session.Store
}

func NewAdminHandler(
	admins service.AdminService,
	inventory service.InventoryService,
	orders service.OrderService,
	sessions *session.Store,
) *AdminHandler {
	return &AdminHandler{admins: admins, inventory: inventory, orders: orders, sessions: sessions}
}

// ---- auth ----

func (h *AdminHandler) ShowLogin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "POST username and password to log in"})
}

func (h *AdminHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	admin, err := h.admins.Login(username, password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid login"})
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
	}
	sess.Set(middleware.AdminSessionKey, admin.ID)
	if err := sess.Save(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
	}

	return c.JSON(fiber.Map{"message": "Logged in", "admin": admin})
}

func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err == nil {
		sess.Delete(middleware.AdminSessionKey)
		_ = sess.Save()
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ---- orders ----

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, total, err := h.orders.GetOrder(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
	}
	return c.JSON(fiber.Map{"order": order, "items": order.Items, "total": total})
}

// UpdateOrderStatus applies the status form field through the transition
// table.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	status := model.OrderStatus(c.FormValue("status"))
	order, err := h.orders.UpdateStatus(id, status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		case errors.Is(err, service.ErrUnknownStatus), errors.Is(err, service.ErrIllegalTransition):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}

	return c.JSON(fiber.Map{"message": "Status updated", "order": order})
}

// SendInvoice emails the invoice for an order. A transport failure comes back
// as a warning on a successful response; the order is untouched either way.
func (h *AdminHandler) SendInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orders.SendInvoice(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.JSON(fiber.Map{"warning": "Failed to send email: " + err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Invoice sent successfully to " + order.Email})
}

// ---- inventory ----

func (h *AdminHandler) ListInventory(c *fiber.Ctx) error {
	entries, err := h.inventory.ListTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(entries)
}

// ShowProduct backs the GET halves of the edit and top-up forms.
func (h *AdminHandler) ShowProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	products, err := h.inventory.ListProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	for _, p := range products {
		if p.ID == id {
			return c.JSON(p)
		}
	}
	return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
}

func (h *AdminHandler) AddInventory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	qty, err := strconv.Atoi(c.FormValue("added_stock"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Please enter a valid stock quantity"})
	}

	product, err := h.inventory.AddStock(id, qty)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			return c.Status(400).JSON(fiber.Map{"error": "Please enter a valid stock quantity"})
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Added " + strconv.Itoa(qty) + " units to " + product.Name,
		"product": product,
	})
}

// ---- products ----

func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.inventory.ListProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// parseProductInput reads the product form. Stock stays nil when the field is
// omitted or blank so edits can leave it unchanged.
func parseProductInput(c *fiber.Ctx) (*service.ProductInput, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}

	input := &service.ProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
	}

	if raw := c.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("stock must be a number")
		}
		input.Stock = &stock
	}

	return input, nil
}

// productImage returns the optional upload; a nil reader means no image.
func productImage(c *fiber.Ctx) (io.ReadCloser, string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil || fileHeader.Filename == "" {
		return nil, "", nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", errors.New("could not read image upload")
	}
	return file, fileHeader.Filename, nil
}

func (h *AdminHandler) AddProduct(c *fiber.Ctx) error {
	input, err := parseProductInput(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	image, imageName, err := productImage(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	var reader io.Reader
	if image != nil {
		defer image.Close()
		reader = image
	}

	product, err := h.inventory.CreateProduct(input, reader, imageName)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product added successfully", "product": product})
}

func (h *AdminHandler) EditProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	input, err := parseProductInput(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	image, imageName, err := productImage(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	var reader io.Reader
	if image != nil {
		defer image.Close()
		reader = image
	}

	product, err := h.inventory.UpdateProduct(id, input, reader, imageName)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated successfully", "product": product})
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.inventory.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// ---- admin accounts ----

func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	admins, err := h.admins.ListAdmins()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(admins)
}

func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	admin, err := h.admins.CreateAdmin(username, password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return c.Status(409).JSON(fiber.Map{"error": "Username already exists"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Admin '" + admin.Username + "' created successfully", "admin": admin})
}

func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid admin ID"})
	}

	admin, err := h.admins.ChangePassword(id, c.FormValue("new_password"))
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Admin not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Password for '" + admin.Username + "' updated successfully"})
}
