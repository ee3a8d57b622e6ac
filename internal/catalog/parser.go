package catalog

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

const readBufferSize = 4096

// ReadVenues parses a JSON array of venue objects from r. Unknown keys are
// skipped, null values leave fields at their zero value, null array
// elements are dropped, and any structural or type error or content after
// the closing bracket fails the whole document.
func ReadVenues(r io.Reader) ([]model.Venue, error) {
	iter := jsoniter.Parse(jsoniter.ConfigCompatibleWithStandardLibrary, r, readBufferSize)

	venues := make([]model.Venue, 0)
	for iter.ReadArray() {
		if iter.ReadNil() {
			continue
		}
		venue, err := readVenue(iter)
		if err != nil {
			return nil, fmt.Errorf("venue %d: %w", len(venues), err)
		}
		if err := iterError(iter); err != nil {
			return nil, fmt.Errorf("venue %d: %w", len(venues), err)
		}
		venues = append(venues, venue)
	}
	if err := iterError(iter); err != nil {
		return nil, err
	}
	iter.WhatIsNext()
	if iter.Error == nil {
		return nil, errors.New("unexpected content after venue array")
	}
	return venues, nil
}

func readVenue(iter *jsoniter.Iterator) (model.Venue, error) {
	var v model.Venue
	for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
		if iter.ReadNil() {
			continue
		}
		switch field {
		case "id":
			v.ID = iter.ReadInt64()
		case "name":
			v.Name = iter.ReadString()
		case "address":
			v.Address = iter.ReadString()
		case "city":
			v.City = iter.ReadString()
		case "state":
			v.State = iter.ReadString()
		case "zip":
			v.Zip = iter.ReadString()
		case "phone":
			v.Phone = iter.ReadString()
		case "tollfreephone":
			v.TollFreePhone = iter.ReadString()
		case "pcode":
			v.PCode = iter.ReadInt()
		case "latitude":
			v.Latitude = iter.ReadFloat64()
		case "longitude":
			v.Longitude = iter.ReadFloat64()
		case "description":
			v.Description = iter.ReadString()
		case "image_url":
			v.ImageURL = iter.ReadString()
		case "ticket_link":
			v.TicketLink = iter.ReadString()
		case "schedule":
			schedule, err := readSchedule(iter)
			if err != nil {
				return model.Venue{}, err
			}
			v.Schedule = schedule
		default:
			iter.Skip()
		}
		if err := iterError(iter); err != nil {
			return model.Venue{}, fmt.Errorf("field %q: %w", field, err)
		}
	}
	return v, nil
}

func readSchedule(iter *jsoniter.Iterator) ([]model.ScheduleItem, error) {
	items := make([]model.ScheduleItem, 0)
	for iter.ReadArray() {
		if iter.ReadNil() {
			continue
		}
		var start, end string
		for field := iter.ReadObject(); field != ""; field = iter.ReadObject() {
			switch field {
			case "start_date":
				start = iter.ReadString()
			case "end_date":
				end = iter.ReadString()
			default:
				iter.Skip()
			}
		}
		if err := iterError(iter); err != nil {
			return nil, fmt.Errorf("schedule %d: %w", len(items), err)
		}

		item, err := model.NewScheduleItem(start, end)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", len(items), err)
		}
		items = append(items, item)
	}
	return items, nil
}

// iterError hides the io.EOF the iterator records once the reader is drained.
func iterError(iter *jsoniter.Iterator) error {
	if iter.Error == nil || iter.Error == io.EOF {
		return nil
	}
	return iter.Error
}
