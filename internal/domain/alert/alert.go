package alert

// DefaultDescription is substituted when an alert carries no description.
const DefaultDescription = "No description provided"

// messagePrefix prefixes every outgoing SMS body.
const messagePrefix = "Alert: "

// Alert is one unit of an inbound notification batch.
// Both fields are optional at the boundary and defaulted explicitly.
type Alert struct {
	// Description is the free-text condition description from the alert annotations.
	Description string
	// Team is the team label the alert should be routed to. May be empty.
	Team string
}

// Message builds the SMS body for the alert, substituting the default
// description when none was provided.
func (a Alert) Message() string {
	description := a.Description
	if description == "" {
		description = DefaultDescription
	}

	return messagePrefix + description
}

// Batch is an ordered sequence of alerts from a single webhook call.
type Batch []Alert

// Contact is a member of a team.
type Contact struct {
	// Phone is the destination phone number for SMS delivery.
	Phone string `json:"phone"`
}

// Team is an ordered sequence of contacts sharing a team identifier.
type Team []Contact

// Clone returns a copy of the team to avoid leaking internal references.
func (t Team) Clone() Team {
	if t == nil {
		return nil
	}

	cloned := make(Team, len(t))
	copy(cloned, t)

	return cloned
}
