// File: models/schedule.go
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ------------------------ date -----------------------

const dateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Valid reports whether d parses as a calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Time returns d at midnight UTC. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// ------------------------ attendee -----------------------

// AttendeeKind tells members and ad hoc guests apart.
type AttendeeKind string

const (
	AttendeeMember AttendeeKind = "member"
	AttendeeGuest  AttendeeKind = "guest"
)

// GuestIDPrefix starts every synthesized guest id.
const GuestIDPrefix = "guest-"

// GuestMarker is appended to a guest's display name.
const GuestMarker = " (Khách)"

// Attendee identifies who a vote belongs to.
type Attendee struct {
	Kind AttendeeKind
	ID   string
	Name string
}

// Member returns the attendee for a registered user.
func Member(id, name string) Attendee {
	return Attendee{Kind: AttendeeMember, ID: id, Name: name}
}

// Guest returns the attendee for a guest with a plain display name.
func Guest(id, name string) Attendee {
	return Attendee{Kind: AttendeeGuest, ID: id, Name: name}
}

// IsGuest reports whether the attendee is a guest.
func (a Attendee) IsGuest() bool {
	return a.Kind == AttendeeGuest
}

// DisplayName is the name shown for the attendee, with the guest marker for guests.
func (a Attendee) DisplayName() string {
	if a.IsGuest() {
		return a.Name + GuestMarker
	}
	return a.Name
}

// ------------------------ vote -----------------------

// Vote is one attendee's answer for a schedule.
type Vote struct {
	Attendee  Attendee
	Attending bool
}

// UserID returns the member or guest id of the vote.
func (v Vote) UserID() string {
	return v.Attendee.ID
}

// UserName returns the display name of the vote.
func (v Vote) UserName() string {
	return v.Attendee.DisplayName()
}

type voteJSON struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Attending bool   `json:"attending"`
	Guest     *bool  `json:"guest,omitempty"`
}

// MarshalJSON writes the vote in the snapshot wire shape.
func (v Vote) MarshalJSON() ([]byte, error) {
	guest := v.Attendee.IsGuest()
	return json.Marshal(voteJSON{
		UserID:    v.Attendee.ID,
		UserName:  v.UserName(),
		Attending: v.Attending,
		Guest:     &guest,
	})
}

// UnmarshalJSON reads a vote. Snapshots without the guest flag fall back to
// the guest id prefix.
func (v *Vote) UnmarshalJSON(data []byte) error {
	var raw voteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	guest := strings.HasPrefix(raw.UserID, GuestIDPrefix)
	if raw.Guest != nil {
		guest = *raw.Guest
	}
	if guest {
		v.Attendee = Guest(raw.UserID, strings.TrimSuffix(raw.UserName, GuestMarker))
	} else {
		v.Attendee = Member(raw.UserID, raw.UserName)
	}
	v.Attending = raw.Attending
	return nil
}

// ------------------------ schedule -----------------------

// ShuttlecockInfo records the equipment used by a completed session.
type ShuttlecockInfo struct {
	Quantity            int64 `json:"quantity"`
	PricePerShuttlecock int64 `json:"pricePerShuttlecock"`
	TotalCost           int64 `json:"totalCost"`
}

// NewShuttlecockInfo computes the total cost for quantity shuttlecocks at price each.
func NewShuttlecockInfo(quantity, price int64) ShuttlecockInfo {
	return ShuttlecockInfo{
		Quantity:            quantity,
		PricePerShuttlecock: price,
		TotalCost:           quantity * price,
	}
}

// Schedule is a single planned play session.
type Schedule struct {
	ID              string           `json:"id"`
	CourtName       string           `json:"courtName"`
	Location        string           `json:"location"`
	PlayTime        string           `json:"playTime"` // free text, e.g. "19:00 - 21:00"
	PlayDate        Date             `json:"playDate"`
	CreatedBy       string           `json:"createdBy"`
	Votes           []Vote           `json:"votes"`
	Completed       bool             `json:"completed"`
	ShuttlecockInfo *ShuttlecockInfo `json:"shuttlecockInfo,omitempty"` // set iff Completed
}

// VoteIndex returns the position of the vote for id, or -1.
func (s Schedule) VoteIndex(id string) int {
	for i, v := range s.Votes {
		if v.Attendee.ID == id {
			return i
		}
	}
	return -1
}
