package schema

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "client_event",
	"fields": [
		{"name": "client_id", "type": "string"},
		{"name": "kind", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "product_name", "type": "string"},
		{"name": "search", "type": "string"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// ClientEventV1 is the wire shape of a storefront activity event.
// OccurredAt carries unix milliseconds.
type ClientEventV1 struct {
	ClientID    string `avro:"client_id"`
	Kind        string `avro:"kind"`
	ProductID   int64  `avro:"product_id"`
	ProductName string `avro:"product_name"`
	Search      string `avro:"search"`
	OccurredAt  int64  `avro:"occurred_at"`
}
