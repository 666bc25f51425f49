package messaging_test

import (
	"testing"

	"sales-service/internal/core"
	"sales-service/internal/messaging"
)

func TestRoutingKey(t *testing.T) {
	cases := []struct {
		eventName string
		want      string
	}{
		{"SaleCreatedEvent", "sale.created"},
		{"SaleModifiedEvent", "sale.modified"},
		{"SaleCancelledEvent", "sale.cancelled"},
		{"SaleItemModifiedEvent", "sale.item.modified"},
		{"SaleItemCancelledEvent", "sale.item.cancelled"},
	}
	for _, tc := range cases {
		if got := messaging.RoutingKey(tc.eventName); got != tc.want {
			t.Errorf("RoutingKey(%q) = %q, want %q", tc.eventName, got, tc.want)
		}
	}
}

// Every declared event type must derive a distinct routing key, otherwise
// two event types would share a queue.
func TestRoutingKey_DistinctPerEventType(t *testing.T) {
	seen := make(map[string]string)
	for _, name := range core.EventNames() {
		key := messaging.RoutingKey(name)
		if other, ok := seen[key]; ok {
			t.Errorf("%s and %s both derive %q", name, other, key)
		}
		seen[key] = name
	}
}
