package models

// SelectorLength is the size of a function selector in bytes
const SelectorLength = 4

// Selector is the 4-byte dispatch identifier of a contract function
type Selector [SelectorLength]byte

// InterfaceRecord describes one callable function exposed by a bytecode blob.
// The JSON field names are the on-disk cache format.
type InterfaceRecord struct {
	Signature     string   `json:"abi"`
	Selector      Selector `json:"function"`
	Name          string   `json:"function_name"`
	IsStatic      bool     `json:"is_static"`
	IsPayable     bool     `json:"is_payable"`
	IsConstructor bool     `json:"is_constructor"`
}
