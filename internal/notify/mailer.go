// Package notify sends the storefront's transactional email: the seller and
// customer pair fired after a checkout commits, and the on-demand invoice
// from the admin panel. Delivery is best-effort everywhere; a failed send is
// logged or surfaced as a warning but never fails the triggering request.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"

	"github.com/rs/zerolog"
)

// Notifier is the seam services depend on; tests swap in a recorder.
type Notifier interface {
	OrderPlaced(order *model.OnlineOrder, lines cart.Cart, total float64)
	Invoice(order *model.OnlineOrder, items []model.OnlineOrderItem, total float64) error
}

type Mailer struct {
	cfg SMTPConfig
	log zerolog.Logger
}

func NewMailer(cfg SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// OrderPlaced dispatches the seller alert and customer confirmation in the
// background. Checkout has already committed by the time this runs, so
// transport latency and failures stay off the request path.
func (m *Mailer) OrderPlaced(order *model.OnlineOrder, lines cart.Cart, total float64) {
	go func() {
		if err := m.cfg.send(
			[]string{m.cfg.Username},
			fmt.Sprintf("New Order: %s", order.OrderNo),
			SellerBody(order, total),
			false,
		); err != nil {
			m.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("seller notification failed")
		}

		if err := m.cfg.send(
			[]string{order.Email},
			fmt.Sprintf("Order Confirmation - %s", order.OrderNo),
			CustomerBody(order, lines, total),
			false,
		); err != nil {
			m.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("customer confirmation failed")
		}
	}()
}

// Invoice sends the HTML invoice to the customer. Synchronous: the admin
// handler reports the outcome either way.
func (m *Mailer) Invoice(order *model.OnlineOrder, items []model.OnlineOrderItem, total float64) error {
	body, err := InvoiceHTML(order, items, total)
	if err != nil {
		return err
	}
	return m.cfg.send([]string{order.Email}, fmt.Sprintf("Invoice for Order #%s", order.OrderNo), body, true)
}

// SellerBody builds the plain-text alert for the shop owner.
func SellerBody(order *model.OnlineOrder, total float64) string {
	return fmt.Sprintf(`Hai, ada order baru masuk!

Order No: %s
Customer: %s
Email: %s
Phone: %s
Address: %s
Total: RM%.2f

Sila semak order dalam admin panel.
`, order.OrderNo, order.CustomerName, order.Email, order.Phone, order.Address, total)
}

// CustomerBody builds the plain-text confirmation with the purchased lines.
func CustomerBody(order *model.OnlineOrder, lines cart.Cart, total float64) string {
	ids := make([]uint, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var items strings.Builder
	for _, id := range ids {
		line := lines[id]
		fmt.Fprintf(&items, "- %s x%d (RM%.2f)\n", line.Name, line.Qty, line.Price)
	}

	return fmt.Sprintf(`Hi %s,

Terima kasih atas pesanan anda!

Order No: %s

Items:
%s
Total Payment: RM%.2f

Kami akan proses order anda secepat mungkin.

Thank you for shopping with us!
`, order.CustomerName, order.OrderNo, items.String(), total)
}

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<h2>Invoice for Order #{{.Order.OrderNo}}</h2>
<p>Customer: {{.Order.CustomerName}}<br>
Address: {{.Order.Address}}<br>
Date: {{.Order.CreatedAt.Format "2006-01-02"}}</p>
<table border="1" cellpadding="4">
  <tr><th>Item</th><th>Qty</th><th>Price</th></tr>
  {{range .Items}}<tr><td>{{.ProductName}}</td><td>{{.Qty}}</td><td>RM{{printf "%.2f" .Price}}</td></tr>
  {{end}}
</table>
<p><strong>Total: RM{{printf "%.2f" .Total}}</strong></p>
`))

// InvoiceHTML renders the invoice email body.
func InvoiceHTML(order *model.OnlineOrder, items []model.OnlineOrderItem, total float64) (string, error) {
	var buf bytes.Buffer
	err := invoiceTmpl.Execute(&buf, struct {
		Order *model.OnlineOrder
		Items []model.OnlineOrderItem
		Total float64
	}{order, items, total})
	if err != nil {
		return "", fmt.Errorf("notify: render invoice: %w", err)
	}
	return buf.String(), nil
}
