package mailing

// Segment is a named predicate over the user population used to select
// mailing recipients.
type Segment string

const (
	// SegmentWithSubscription targets users with an active subscription.
	SegmentWithSubscription Segment = "with_subscription"
	// SegmentWithoutSubscription targets users with no active subscription.
	SegmentWithoutSubscription Segment = "without_subscription"
	// SegmentTrial targets users who have used their trial.
	SegmentTrial Segment = "trial"
	// SegmentInactive targets users not seen for thirty days.
	SegmentInactive Segment = "inactive"
	// SegmentAll targets every user.
	SegmentAll Segment = "all"
)

func (s Segment) IsValid() bool {
	switch s {
	case SegmentWithSubscription, SegmentWithoutSubscription, SegmentTrial, SegmentInactive, SegmentAll:
		return true
	}
	return false
}
