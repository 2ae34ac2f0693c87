package domain

import "time"

// ClientEventKind enumerates the storefront activity events.
type ClientEventKind string

const (
	EventSearch      ClientEventKind = "search"
	EventFilter      ClientEventKind = "filter"
	EventFavorite    ClientEventKind = "favorite"
	EventOrderExport ClientEventKind = "order_export"
)

// ClientEvent is a best-effort activity record emitted to the events
// stream. ProductID is zero for non-product events.
type ClientEvent struct {
	ClientID    string
	Kind        ClientEventKind
	ProductID   int64
	ProductName string
	Search      string
	OccurredAt  time.Time
}
