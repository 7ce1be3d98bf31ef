package pbx

// WebhookEvent is the FreePBX webhook payload. caller_id is the raw inbound
// number as the PBX formats it; everything else is optional.
type WebhookEvent struct {
	EventType     string  `json:"event_type" binding:"required"`
	CallerID      string  `json:"caller_id" binding:"required"`
	Extension     *string `json:"extension"`
	AgentUsername *string `json:"agent_username"`
	CallID        *string `json:"call_id"`
	Timestamp     *string `json:"timestamp"`
	Direction     *string `json:"direction"`
}

// WebhookResult echoes the routing outcome back to the PBX dial plan.
type WebhookResult struct {
	Success       bool    `json:"success"`
	RedirectURL   string  `json:"redirect_url"`
	ContactExists bool    `json:"contact_exists"`
	ContactID     *string `json:"contact_id"`
	CallEventID   string  `json:"call_event_id"`
	Message       string  `json:"message"`
}

// CallEvent is the durable record of one webhook delivery. It is created
// unprocessed and flipped to processed when an agent consumes it or logs a
// call against it; events are never deleted.
type CallEvent struct {
	ID             string  `bson:"id" json:"id"`
	FreePBXCallID  *string `bson:"freepbx_call_id" json:"freepbx_call_id"`
	CallerNumber   string  `bson:"caller_number" json:"caller_number"`
	AgentID        *string `bson:"agent_id" json:"agent_id"`
	AgentExtension *string `bson:"agent_extension" json:"agent_extension"`
	ContactID      *string `bson:"contact_id" json:"contact_id"`
	ContactExists  bool    `bson:"contact_exists" json:"contact_exists"`
	EventType      string  `bson:"event_type" json:"event_type"`
	Direction      string  `bson:"direction" json:"direction"`
	RedirectURL    string  `bson:"redirect_url" json:"redirect_url"`
	Timestamp      string  `bson:"timestamp" json:"timestamp"`
	CreatedAt      string  `bson:"created_at" json:"created_at"`
	Processed      bool    `bson:"processed" json:"processed"`
	ProcessedAt    *string `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	CallID         *string `bson:"call_id,omitempty" json:"call_id,omitempty"`
}
