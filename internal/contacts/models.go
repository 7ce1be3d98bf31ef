package contacts

// Contact is a caller record keyed by phone number uniqueness. Optional
// fields are pointers so absent values round-trip as JSON null, matching the
// partial-update semantics.
type Contact struct {
	ID          string   `bson:"id" json:"id"`
	PhoneNumber string   `bson:"phone_number" json:"phone_number"`
	Name        *string  `bson:"name" json:"name"`
	Email       *string  `bson:"email" json:"email"`
	Address     *string  `bson:"address" json:"address"`
	Company     *string  `bson:"company" json:"company"`
	Tags        []string `bson:"tags" json:"tags"`
	CreatedAt   string   `bson:"created_at" json:"created_at"`
	UpdatedAt   string   `bson:"updated_at" json:"updated_at"`
}

// DisplayName falls back to the phone number for bare contacts.
func (c *Contact) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.PhoneNumber
}
