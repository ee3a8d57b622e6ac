package model

import "strings"

// Venue is a place-of-interest record as listed in the venue catalog.
type Venue struct {
	ID            int64          `db:"id"             json:"id"`
	Name          string         `db:"name"           json:"name"`
	Address       string         `db:"address"        json:"address"`
	City          string         `db:"city"           json:"city"`
	State         string         `db:"state"          json:"state"`
	Zip           string         `db:"zip"            json:"zip"`
	Phone         string         `db:"phone"          json:"phone"`
	TollFreePhone string         `db:"toll_free_phone" json:"tollfreephone"`
	PCode         int            `db:"pcode"          json:"pcode"`
	Latitude      float64        `db:"latitude"       json:"latitude"`
	Longitude     float64        `db:"longitude"      json:"longitude"`
	Description   string         `db:"description"    json:"description"`
	ImageURL      string         `db:"image_url"      json:"image_url"`
	TicketLink    string         `db:"ticket_link"    json:"ticket_link"`
	Schedule      []ScheduleItem `db:"-"              json:"schedule"`
}

// ShareText builds the plain-text message used when a venue is shared:
// "name, address", skipping whichever part is empty.
func (v Venue) ShareText() string {
	var b strings.Builder
	if v.Name != "" {
		b.WriteString(v.Name)
		b.WriteString(", ")
	}
	if v.Address != "" {
		b.WriteString(v.Address)
	}
	return b.String()
}

// Location renders the "City, ST 12345" line.
func (v Venue) Location() string {
	line := v.City
	region := strings.TrimSpace(strings.Join([]string{v.State, v.Zip}, " "))
	if line != "" && region != "" {
		line += ", "
	}
	return line + region
}
