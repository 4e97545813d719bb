// Package models contains the data structures shared across the scanner.
package models

import "time"

// ScanTarget is an immutable description of the endpoint under test.
// Params maps each parameter name to its baseline value; parameters not
// currently under test are sent with these baselines.
type ScanTarget struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
	Workers int               `json:"workers"`
}

// Finding records one confirmed XSS vector. Exactly one Finding exists per
// (parameter, context) pair: testing a context stops at the first payload
// the oracle confirms.
type Finding struct {
	Param      string    `json:"param"`
	Context    string    `json:"context"`
	Payload    string    `json:"payload"`
	ExploitURL string    `json:"exploit_url"`
	Method     string    `json:"method"`
	Timestamp  time.Time `json:"timestamp"`
}
