package realtime

// EventTypeOrderUpdate labels order change notifications on the wire.
const EventTypeOrderUpdate = "order_update"

// Event is the envelope pushed to every subscriber, serialized as JSON text.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// OrderUpdateData is the payload of an order_update event. Total is a decimal
// string and CreatedAt an RFC 3339 timestamp.
type OrderUpdateData struct {
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Total      string `json:"total"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}
