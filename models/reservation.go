package models

import (
	"time"
)

// Reservation is the record the engine creates, mutates and deletes.
// (spaceId, slotTimestamp) is the table's composite primary key and the
// unit of concurrency control: the conditional insert on that key is what
// prevents double-booking. The attribute names are the wire contract other
// services read, do not rename them.
type Reservation struct {
	SpaceID         string `json:"spaceId" dynamodbav:"spaceId"`
	SlotTimestamp   string `json:"slotTimestamp" dynamodbav:"slotTimestamp"`
	UserID          string `json:"userId" dynamodbav:"userId"`
	Status          string `json:"status" dynamodbav:"status"`
	DateReservation string `json:"dateReservation" dynamodbav:"dateReservation"`
	Hour            string `json:"hour" dynamodbav:"hour"`
	CreatedAt       string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// SlotInstant parses the slot timestamp into an absolute instant.
func (r *Reservation) SlotInstant() (time.Time, error) {
	return time.Parse(time.RFC3339, r.SlotTimestamp)
}
