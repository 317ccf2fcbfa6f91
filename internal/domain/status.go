package domain

import "strings"

// Canonical PIX charge statuses. Every provider vocabulary is mapped onto
// this set before any comparison or persistence.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
	StatusRefunded  = "refunded"
)

// statusPriority orders statuses so a late or replayed webhook can never
// downgrade a record. Failure states sit at zero but are always applied
// (see AllowsTransition) so a late rejection can still override "pending".
var statusPriority = map[string]int{
	StatusRejected:  0,
	StatusCancelled: 0,
	StatusExpired:   0,
	StatusPending:   1,
	StatusPaid:      3,
	StatusRefunded:  4,
}

// Priority returns the monotonicity rank of a canonical status. Unknown
// statuses rank zero.
func Priority(status string) int {
	return statusPriority[status]
}

// IsFailure reports whether status is one of the terminal failure states
// that override the priority comparison.
func IsFailure(status string) bool {
	switch status {
	case StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// AllowsTransition reports whether a webhook claiming next may be applied
// over the stored current status.
func AllowsTransition(current, next string) bool {
	if IsFailure(next) {
		return true
	}
	return Priority(next) >= Priority(current)
}

// Per-provider raw status vocabularies. New providers get a new table here,
// never inline comparisons in handlers.
var syncpayStatuses = map[string]string{
	"pending":    StatusPending,
	"processing": StatusPending,
	"approved":   StatusPaid,
	"paid":       StatusPaid,
	"completed":  StatusPaid,
	"rejected":   StatusRejected,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"expired":    StatusExpired,
	"refunded":   StatusRefunded,
}

// CanonicalStatus maps a provider's raw status string onto the canonical
// set. Unrecognized values pass through lowercased so they rank zero in the
// priority table rather than being dropped.
func CanonicalStatus(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := syncpayStatuses[raw]; ok {
		return mapped
	}
	return raw
}

// utmifyStatuses maps canonical statuses to UTMify order statuses. Statuses
// absent from the table are not reported.
var utmifyStatuses = map[string]string{
	StatusPending: "waiting_payment",
	StatusPaid:    "paid",
}

// UtmifyStatus returns the UTMify order status for a canonical status, or
// ok=false when the transition is not reportable.
func UtmifyStatus(status string) (string, bool) {
	s, ok := utmifyStatuses[status]
	return s, ok
}
