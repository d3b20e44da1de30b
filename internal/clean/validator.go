// Package clean implements the record-level cleaning stages of the pipeline:
// validation/normalization, run-scoped deduplication, per-chunk processing,
// and stats aggregation.
package clean

import (
	"strings"
	"time"

	"eventclean/internal/event"
)

// Reason classifies why a record was dropped.
type Reason string

const (
	ReasonNullField       Reason = "null_field"
	ReasonBadTimestamp    Reason = "bad_timestamp"
	ReasonInvalidCategory Reason = "invalid_category"
	ReasonFullDuplicate   Reason = "full_duplicate"
	ReasonEventIDDup      Reason = "eventid_duplicate"
)

// validEventTypes and validDevices are the fixed categorical vocabularies.
// Membership is a case-sensitive exact match after trimming.
var (
	validEventTypes = map[string]struct{}{
		"Login": {}, "Logout": {}, "LevelComplete": {}, "InAppPurchase": {},
		"SocialInteraction": {}, "SessionStart": {}, "SessionEnd": {},
	}
	validDevices = map[string]struct{}{
		"Android": {}, "iOS": {}, "PC": {},
	}
)

// Validator checks and normalizes a single record. It holds no state, so one
// value can be shared freely across chunks and goroutines.
type Validator struct{}

// Validate applies the fixed check order with first-failure-wins semantics:
//
//  1. mandatory fields non-empty after trimming (EventDetails excepted)
//  2. EventTimestamp parses as `2006-01-02 15:04:05`
//  3. EventType / DeviceType in their vocabularies
//
// On success it returns the normalized record: all fields trimmed, internal
// whitespace runs in the free-text fields (EventDetails, Location) collapsed
// to single spaces, and the timestamp re-serialized in canonical form.
func (Validator) Validate(e event.Event) (event.Event, Reason, bool) {
	n := event.Event{
		EventID:        strings.TrimSpace(e.EventID),
		PlayerID:       strings.TrimSpace(e.PlayerID),
		EventTimestamp: strings.TrimSpace(e.EventTimestamp),
		EventType:      strings.TrimSpace(e.EventType),
		EventDetails:   strings.TrimSpace(e.EventDetails),
		DeviceType:     strings.TrimSpace(e.DeviceType),
		Location:       strings.TrimSpace(e.Location),
	}

	if n.EventID == "" || n.PlayerID == "" || n.EventTimestamp == "" ||
		n.EventType == "" || n.DeviceType == "" || n.Location == "" {
		return event.Event{}, ReasonNullField, false
	}

	ts, err := time.Parse(event.TimestampLayout, n.EventTimestamp)
	if err != nil {
		return event.Event{}, ReasonBadTimestamp, false
	}
	n.EventTimestamp = ts.Format(event.TimestampLayout)

	if _, ok := validEventTypes[n.EventType]; !ok {
		return event.Event{}, ReasonInvalidCategory, false
	}
	if _, ok := validDevices[n.DeviceType]; !ok {
		return event.Event{}, ReasonInvalidCategory, false
	}

	n.EventDetails = collapseSpace(n.EventDetails)
	n.Location = collapseSpace(n.Location)
	return n, "", true
}

// collapseSpace reduces every internal whitespace run to a single space.
// The input is already trimmed.
func collapseSpace(s string) string {
	if !strings.ContainsAny(s, " \t\n\r") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
