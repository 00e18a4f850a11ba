package models

// Source tells where a fetched interface came from
type Source string

const (
	SourceCache      Source = "cache"
	SourceDecompiler Source = "decompiler"
)

// RejectedRecord is a function structure the normalizer could not turn into a record
type RejectedRecord struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// FetchResult is the outcome of a single interface lookup
type FetchResult struct {
	Key      string            `json:"key"`
	Source   Source            `json:"source"`
	Records  []InterfaceRecord `json:"records"`
	Rejected []RejectedRecord  `json:"rejected,omitempty"`
}
