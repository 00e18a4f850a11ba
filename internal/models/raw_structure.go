package models

// StructureType is the variant tag the decompiler attaches to each recovered item
type StructureType string

const (
	StructureFunction    StructureType = "function"
	StructureEvent       StructureType = "event"
	StructureError       StructureType = "error"
	StructureConstructor StructureType = "constructor"
	StructureFallback    StructureType = "fallback"
	StructureReceive     StructureType = "receive"
)

// Mutability values reported by the decompiler
const (
	MutabilityView       = "view"
	MutabilityPure       = "pure"
	MutabilityPayable    = "payable"
	MutabilityNonPayable = "nonpayable"
)

// RawParam is a single declared parameter of a raw structure
type RawParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RawStructure is one item of decompiler output, shaped like a Solidity ABI JSON entry
type RawStructure struct {
	Type            StructureType `json:"type"`
	Name            string        `json:"name"`
	Inputs          []RawParam    `json:"inputs"`
	Outputs         []RawParam    `json:"outputs,omitempty"`
	StateMutability string        `json:"stateMutability,omitempty"`
	Anonymous       bool          `json:"anonymous,omitempty"`
}

// IsFunction reports whether the structure describes a callable function
func (r RawStructure) IsFunction() bool {
	return r.Type == StructureFunction
}
