package calls

// Call is one logged call. Agent identity and contact name are denormalized
// at write time; reads never join against users or contacts.
type Call struct {
	ID            string  `bson:"id" json:"id"`
	ContactID     string  `bson:"contact_id" json:"contact_id"`
	AgentID       string  `bson:"agent_id" json:"agent_id"`
	AgentName     string  `bson:"agent_name" json:"agent_name"`
	CallerNumber  string  `bson:"caller_number" json:"caller_number"`
	ContactName   *string `bson:"contact_name" json:"contact_name"`
	Duration      int     `bson:"duration" json:"duration"`
	Notes         *string `bson:"notes" json:"notes"`
	CallType      string  `bson:"call_type" json:"call_type"`
	Priority      string  `bson:"priority" json:"priority"`
	Status        string  `bson:"status" json:"status"`
	ResolutionNotes *string `bson:"resolution_notes" json:"resolution_notes"`
	Timestamp     string  `bson:"timestamp" json:"timestamp"`
	FreePBXCallID *string `bson:"freepbx_call_id" json:"freepbx_call_id"`
}

// Stats is the call dashboard payload. AvgDuration is 0 on an empty ledger.
type Stats struct {
	TotalCalls      int64            `json:"total_calls"`
	CallsToday      int64            `json:"calls_today"`
	CallsThisWeek   int64            `json:"calls_this_week"`
	CallsByType     map[string]int64 `json:"calls_by_type"`
	CallsByPriority map[string]int64 `json:"calls_by_priority"`
	CallsByStatus   map[string]int64 `json:"calls_by_status"`
	AvgDuration     float64          `json:"avg_duration"`
}
