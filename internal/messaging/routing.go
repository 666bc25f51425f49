package messaging

import "strings"

// RoutingKey derives the topic routing key for an event type name: a
// trailing "Event" suffix is stripped, a dot is inserted before each
// internal upper-case boundary, and the result is lowercased.
//
//	SaleCreatedEvent      → sale.created
//	SaleItemModifiedEvent → sale.item.modified
//
// This is a wire-compatibility contract: consumers bind queues by these
// keys, so the derivation must stay deterministic.
func RoutingKey(eventName string) string {
	name := strings.TrimSuffix(eventName, "Event")

	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
