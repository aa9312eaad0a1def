package payload

import "photoshoot-bot/internal/order"

// MergeOrderState folds the overrides into the order carried by prev. Any
// payload other than OrderBuilder starts a new order.
func MergeOrderState(prev Payload, o order.Overrides) order.State {
	if b, ok := prev.(OrderBuilder); ok {
		return order.Merge(&b.State, o)
	}
	return order.Merge(nil, o)
}
