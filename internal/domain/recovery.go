package domain

import "time"

// RecoveryAction is the outreach the detector recommends for an abandoned cart.
type RecoveryAction string

const (
	ActionFirstReminder RecoveryAction = "first_reminder"
	ActionDiscountOffer RecoveryAction = "discount_offer"
	ActionFinalReminder RecoveryAction = "final_reminder"
)

// MailTemplate names the transactional-mail template for each action.
type MailTemplate string

const (
	TemplateFirstReminder MailTemplate = "cart_abandoned_first"
	TemplateDiscountOffer MailTemplate = "cart_abandoned_discount"
	TemplateFinalReminder MailTemplate = "cart_abandoned_final"
)

// AbandonedCart is one row returned by the database-side detector.
// Read-only to the orchestrator; lives for a single detection cycle.
type AbandonedCart struct {
	CartSessionID     string         `json:"cartSessionId"`
	UserID            string         `json:"userId"`
	PriorityScore     int            `json:"priorityScore"`
	RecommendedAction RecoveryAction `json:"recommendedAction"`
}

// RecoveryAttempt is the append-only audit record of one outreach action.
type RecoveryAttempt struct {
	ID              string    `json:"id"`
	CartSessionID   string    `json:"cartSessionId"`
	RecoveryType    string    `json:"recoveryType"`
	DiscountOffered bool      `json:"discountOffered"`
	DiscountCode    string    `json:"discountCode,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
