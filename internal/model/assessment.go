package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// FactorWeight is a single (factor, weighted risk) entry of an assessment.
// It marshals as a two-element JSON array because the API and archived
// reports expose details as [factor, weighted] pairs.
type FactorWeight struct {
	Factor   string
	Weighted float64
}

// MarshalJSON encodes the entry as ["factor name", weighted].
func (f FactorWeight) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{f.Factor, f.Weighted})
}

// UnmarshalJSON decodes a ["factor name", weighted] pair.
func (f *FactorWeight) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("factor weight: expected [factor, weighted] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Factor); err != nil {
		return fmt.Errorf("factor weight: factor: %w", err)
	}
	if err := json.Unmarshal(pair[1], &f.Weighted); err != nil {
		return fmt.Errorf("factor weight: weighted: %w", err)
	}
	return nil
}

// Assessment is an immutable snapshot of one subject's weighted risk at a
// point in time. ReportKey is set once an HTML report has been archived to
// object storage; it is empty otherwise.
type Assessment struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Total     float64        `json:"total"`
	Details   []FactorWeight `json:"details"`
	ReportKey string         `json:"report_key,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
