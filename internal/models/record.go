package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type SchemaVersion int

const (
	SchemaLegacy SchemaVersion = 1
	SchemaTiered SchemaVersion = 2
)

// Record is one entry of the results file. Exactly one of Legacy or Tiered is
// set, selected by Version.
type Record struct {
	Version SchemaVersion
	Legacy  *LegacyWeekResult
	Tiered  *WeekResult
}

func NewRecord(r WeekResult) Record {
	r.SchemaVersion = SchemaTiered
	return Record{Version: SchemaTiered, Tiered: &r}
}

func NewLegacyRecord(r LegacyWeekResult) Record {
	return Record{Version: SchemaLegacy, Legacy: &r}
}

func (r Record) Key() WeekKey {
	switch r.Version {
	case SchemaLegacy:
		return r.Legacy.Key()
	case SchemaTiered:
		return r.Tiered.Key()
	}
	return WeekKey{}
}

func (r Record) ProcessedAt() time.Time {
	switch r.Version {
	case SchemaLegacy:
		return r.Legacy.ProcessedAt.Time
	case SchemaTiered:
		return r.Tiered.ProcessedAt.Time
	}
	return time.Time{}
}

func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Version {
	case SchemaLegacy:
		return json.Marshal(r.Legacy)
	case SchemaTiered:
		t := *r.Tiered
		t.SchemaVersion = SchemaTiered
		return json.Marshal(t)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownSchema, r.Version)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var probe struct {
		SchemaVersion *SchemaVersion  `json:"schema_version"`
		Rankings      json.RawMessage `json:"rankings"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}

	version := SchemaLegacy
	switch {
	case probe.SchemaVersion != nil:
		version = *probe.SchemaVersion
	case len(probe.Rankings) > 0:
		// written before schema_version existed
		version = SchemaTiered
	}

	switch version {
	case SchemaLegacy:
		var l LegacyWeekResult
		if err := json.Unmarshal(b, &l); err != nil {
			return err
		}
		*r = Record{Version: SchemaLegacy, Legacy: &l}
	case SchemaTiered:
		var w WeekResult
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		w.SchemaVersion = SchemaTiered
		*r = Record{Version: SchemaTiered, Tiered: &w}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownSchema, version)
	}
	return nil
}
