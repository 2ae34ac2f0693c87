// Package invoice renders an order as a paginated plain text invoice
// document. It is the formatted counterpart to the raw JSON order
// export; callers fall back to JSON when rendering fails.
package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kiogloss/storefront/internal/core/domain"
)

// ShippingFee is the fixed surcharge added to every invoice total.
const ShippingFee float64 = 8000

const (
	companyName  = "Kio Gloss"
	companySlog  = "Tu estilo, nuestra pasion"
	companyPhone = "+57 322-587-0017"
	companyMail  = "kiogloss@miempresa.com"

	lineWidth    = 78
	itemsPerPage = 18
)

var ErrNoLineItems = errors.New("order has no line items")

// Render produces the complete document or nothing: there is no
// partial-document recovery.
func Render(o domain.Order) ([]byte, error) {
	const op = "invoice.Render"

	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoLineItems)
	}

	pages := chunkItems(o.Items, itemsPerPage)
	var buf bytes.Buffer

	for i, items := range pages {
		writeHeader(&buf, o, i+1, len(pages))
		writeItems(&buf, items, i*itemsPerPage)
		if i == len(pages)-1 {
			writeTotals(&buf, o)
			writeFooter(&buf)
		}
		if i < len(pages)-1 {
			buf.WriteByte('\f')
		}
	}

	return buf.Bytes(), nil
}

func chunkItems(items []domain.OrderItem, size int) [][]domain.OrderItem {
	n := (len(items) + size - 1) / size
	chunks := make([][]domain.OrderItem, 0, n)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

func writeHeader(buf *bytes.Buffer, o domain.Order, page, pages int) {
	rule := strings.Repeat("=", lineWidth)
	fmt.Fprintln(buf, rule)
	fmt.Fprintf(buf, "%-40s %37s\n", companyName, fmt.Sprintf("FACTURA N° %d", o.ID))
	fmt.Fprintf(buf, "%-40s %37s\n", companySlog, o.Date)
	fmt.Fprintf(buf, "%-40s %37s\n", companyPhone, fmt.Sprintf("Pagina %d de %d", page, pages))
	fmt.Fprintln(buf, companyMail)
	fmt.Fprintln(buf, rule)

	if page == 1 {
		fmt.Fprintln(buf, "FACTURAR A")
		fmt.Fprintln(buf, orDefault(o.User.Name, "Cliente"))
		if o.User.Phone != "" {
			fmt.Fprintln(buf, o.User.Phone)
		}
		if o.User.Address != "" {
			fmt.Fprintln(buf, o.User.Address)
		}
		fmt.Fprintln(buf, strings.Repeat("-", lineWidth))
	}

	fmt.Fprintf(buf, "%-4s %-30s %-14s %6s %10s %10s\n",
		"#", "Producto", "Talla/Color", "Cant.", "P. Unit.", "Subtotal")
	fmt.Fprintln(buf, strings.Repeat("-", lineWidth))
}

func writeItems(buf *bytes.Buffer, items []domain.OrderItem, offset int) {
	for i, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		variant := orDefault(it.Size, "-") + " / " + orDefault(it.Color, "-")
		fmt.Fprintf(buf, "%-4d %-30s %-14s %6d %10s %10s\n",
			offset+i+1,
			truncate(it.Title, 30),
			truncate(variant, 14),
			qty,
			formatAmount(it.Price),
			formatAmount(it.Total()),
		)
	}
}

func writeTotals(buf *bytes.Buffer, o domain.Order) {
	subtotal := o.Subtotal()
	total := subtotal + ShippingFee

	fmt.Fprintln(buf, strings.Repeat("-", lineWidth))
	fmt.Fprintf(buf, "%67s %10s\n", "Subtotal", formatAmount(subtotal))
	fmt.Fprintf(buf, "%67s %10s\n", "Envio", formatAmount(ShippingFee))
	fmt.Fprintf(buf, "%67s %10s\n", "TOTAL", formatAmount(total))
}

func writeFooter(buf *bytes.Buffer) {
	fmt.Fprintln(buf, strings.Repeat("=", lineWidth))
	fmt.Fprintln(buf, "Gracias por tu compra! Vuelve pronto")
}

// formatAmount renders a COP amount with thousands separators,
// dropping the fraction when it is integral. Rounding to cents
// happens before the whole/fraction split so a fraction that rounds
// to 1.00 carries into the whole part.
func formatAmount(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	s := groupThousands(whole)
	if frac != 0 {
		s += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		s = "-" + s
	}
	return s
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
