package pricing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kendall-kelly/bakery-admin-api/models"
	"github.com/shopspring/decimal"
)

// ReceiptTitle is printed at the top of every receipt
const ReceiptTitle = "The Bakery House"

// IST is the business time zone (UTC+05:30) for receipts and order numbers
var IST = time.FixedZone("IST", 5*60*60+30*60)

var paymentLabels = map[string]string{
	models.PaymentCash:   "Cash",
	models.PaymentCard:   "Card",
	models.PaymentUPI:    "UPI",
	models.PaymentOnline: "Online",
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": FormatCurrency,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt {{.OrderNumber}}</title>
<style>
body { font-family: monospace; width: 280px; margin: 0 auto; font-size: 12px; }
h1 { font-size: 16px; text-align: center; margin: 4px 0; }
table { width: 100%; border-collapse: collapse; }
td.amount { text-align: right; }
td.detail { padding-left: 12px; font-size: 11px; }
tr.total td { font-weight: bold; border-top: 1px dashed #000; }
p.footer { text-align: center; margin-top: 12px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Order: {{.OrderNumber}}<br>Date: {{.Date}}</p>
<p>Customer: {{.CustomerName}}{{if .CustomerPhone}}<br>Phone: {{.CustomerPhone}}{{end}}</p>
<table>
{{- range .Lines}}
<tr><td>{{.Name}} x {{.Quantity}}</td><td class="amount">{{money .LineTotal}}</td></tr>
{{- range .Attributes}}
<tr><td class="detail">+ {{.Name}} ({{money .ExtraCost}})</td><td></td></tr>
{{- end}}
{{- range .ComboItems}}
<tr><td class="detail">- {{.Name}} x {{.Quantity}}</td><td></td></tr>
{{- end}}
{{- if .Customization}}
<tr><td class="detail">Note: {{.Customization}}</td><td></td></tr>
{{- end}}
{{- end}}
<tr class="total"><td>Subtotal</td><td class="amount">{{money .Subtotal}}</td></tr>
{{- if .HasDiscount}}
<tr><td>Discount</td><td class="amount">-{{money .Discount}}</td></tr>
{{- end}}
<tr><td>Tax</td><td class="amount">{{money .Tax}}</td></tr>
{{- if .HasDeliveryFee}}
<tr><td>Delivery</td><td class="amount">{{money .DeliveryFee}}</td></tr>
{{- end}}
<tr class="total"><td>Total</td><td class="amount">{{money .Total}}</td></tr>
</table>
<p>Paid by: {{.Payment}}</p>
<p class="footer">Thank you! Visit again.</p>
</body>
</html>
`))

type receiptView struct {
	Title          string
	OrderNumber    string
	Date           string
	CustomerName   string
	CustomerPhone  string
	Lines          []models.OrderItem
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	HasDiscount    bool
	Tax            decimal.Decimal
	DeliveryFee    decimal.Decimal
	HasDeliveryFee bool
	Total          decimal.Decimal
	Payment        string
}

// RenderReceipt renders the printable HTML receipt for a finalized order.
// The output depends only on the order, so identical orders print identical bytes.
func RenderReceipt(order models.Order) (string, error) {
	payment, ok := paymentLabels[order.PaymentMethod]
	if !ok {
		payment = strings.ToUpper(order.PaymentMethod)
	}

	view := receiptView{
		Title:          ReceiptTitle,
		OrderNumber:    order.OrderNumber,
		Date:           order.CreatedAt.In(IST).Format("02 Jan 2006, 03:04 PM"),
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Lines:          order.Items,
		Subtotal:       order.Subtotal,
		Discount:       order.DiscountAmount,
		HasDiscount:    !order.DiscountAmount.IsZero(),
		Tax:            order.TaxAmount,
		DeliveryFee:    order.DeliveryFee,
		HasDeliveryFee: !order.DeliveryFee.IsZero(),
		Total:          order.TotalAmount,
		Payment:        payment,
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render receipt for order %s: %w", order.OrderNumber, err)
	}
	return buf.String(), nil
}
