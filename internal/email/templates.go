package email

import (
	"fmt"
	"strings"
)

// OrderItem represents an ordered line for email purposes
type OrderItem struct {
	ProductID string
	Name      string
	Size      string
	Quantity  int
	Price     int
}

// BuildOrderConfirmationBody builds the HTML body for the order
// confirmation email. Prices are the unit prices captured on the order.
func BuildOrderConfirmationBody(orderID, currency string, amount int, items []OrderItem) string {
	var itemsHTML strings.Builder
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s %d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s %d</td>
			</tr>`,
			name,
			item.Size,
			item.Quantity,
			currency, item.Price,
			currency, item.Price*item.Quantity,
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1f2937; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">We have received your order and will start preparing it shortly.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #1f2937; padding-bottom: 10px;">Order details</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Size</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Unit price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total (incl. delivery)</span>
			<span style="font-size: 24px; font-weight: bold; color: #1f2937; margin-left: 10px;">%s %d</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. Replies to this address are not monitored.
		</p>
	</div>
</body>
</html>`,
		orderID,
		itemsHTML.String(),
		currency, amount,
	)
}
