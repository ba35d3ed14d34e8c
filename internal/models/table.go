package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-faster/errors"
)

type Table struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	TableNumber    int           `json:"table_number" gorm:"uniqueIndex;not null"`
	Capacity       int           `json:"capacity" gorm:"not null"`
	Status         TableStatus   `json:"status" gorm:"type:varchar(16);default:'Available'"`
	Location       TableLocation `json:"location" gorm:"type:varchar(16);default:'Indoor'"`
	CurrentOrderID *uint         `json:"current_order_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableReserved  TableStatus = "Reserved"
	TableOccupied  TableStatus = "Occupied"
	TableCleaning  TableStatus = "Cleaning"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied, TableCleaning:
		return true
	}
	return false
}

type TableLocation string

const (
	LocationIndoor      TableLocation = "Indoor"
	LocationOutdoor     TableLocation = "Outdoor"
	LocationBalcony     TableLocation = "Balcony"
	LocationPrivateRoom TableLocation = "Private Room"
)

func (l TableLocation) Valid() bool {
	switch l {
	case LocationIndoor, LocationOutdoor, LocationBalcony, LocationPrivateRoom:
		return true
	}
	return false
}

// TableRef identifies a table in request payloads. Clients send either the
// bare id (42 or "42") or an expanded table record ({"id": 42, ...}); both
// decode to the same identifier.
type TableRef uint

func (r *TableRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID  json.RawMessage `json:"id"`
			OID json.RawMessage `json:"_id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return errors.Wrap(err, "table reference")
		}
		raw := obj.ID
		if len(raw) == 0 {
			raw = obj.OID
		}
		if len(raw) == 0 {
			return errors.New("table reference: object has no id")
		}
		return r.UnmarshalJSON(raw)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "table reference")
		}
		return r.parse(s)
	default:
		return r.parse(string(data))
	}
}

func (r *TableRef) parse(s string) error {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "table reference %q is not a valid id", s)
	}
	*r = TableRef(id)
	return nil
}

func (r TableRef) ID() uint {
	return uint(r)
}
