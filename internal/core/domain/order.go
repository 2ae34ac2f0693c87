package domain

// OrderStatus is the upstream single-letter status code.
type OrderStatus string

const (
	OrderPreparing OrderStatus = "P"
	OrderShipping  OrderStatus = "E"
	OrderDelivered OrderStatus = "C"
)

// DisplayName maps a status code to the name the upstream order
// listing filters by. Unknown codes map to an empty string.
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderPreparing:
		return "En Preparacion"
	case OrderShipping:
		return "En Camino"
	case OrderDelivered:
		return "Entregado"
	default:
		return ""
	}
}

type (
	// Order is read-only from the storefront's perspective: it is
	// displayed and exported, never mutated.
	Order struct {
		ID     int64
		Status string
		Date   string
		Amount float64
		Items  []OrderItem
		User   OrderUser
	}

	OrderItem struct {
		Title    string
		Size     string
		Color    string
		Quantity int
		Price    float64
	}

	OrderUser struct {
		Name    string
		Phone   string
		Address string
	}

	OrderPage struct {
		Orders     []Order
		TotalPages int
	}
)

// Total is the line item total, defaulting a missing quantity to one.
func (i OrderItem) Total() float64 {
	q := i.Quantity
	if q <= 0 {
		q = 1
	}
	return i.Price * float64(q)
}

// Subtotal sums the line item totals.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Total()
	}
	return sum
}
