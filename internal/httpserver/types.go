package httpserver

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"go-abi-cache/internal/models"
)

// InterfaceRequest is the body of every interface endpoint
type InterfaceRequest struct {
	Bytecode string `json:"bytecode"`
}

// RecordView is an InterfaceRecord rendered for API clients, with the
// selector as 0x-prefixed hex
type RecordView struct {
	Selector      string `json:"selector"`
	Signature     string `json:"signature"`
	Name          string `json:"name"`
	IsStatic      bool   `json:"is_static"`
	IsPayable     bool   `json:"is_payable"`
	IsConstructor bool   `json:"is_constructor"`
}

// InterfaceResponse represents an interface fetch response
type InterfaceResponse struct {
	Success  bool                    `json:"success"`
	Key      string                  `json:"key"`
	Source   models.Source           `json:"source"`
	Records  []RecordView            `json:"records"`
	Rejected []models.RejectedRecord `json:"rejected,omitempty"`
}

// ErrorResponse is returned by every endpoint on failure
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// KeyResponse represents a key derivation response
type KeyResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
}

func newRecordViews(records []models.InterfaceRecord) []RecordView {
	views := make([]RecordView, len(records))
	for i, record := range records {
		views[i] = RecordView{
			Selector:      hexutil.Encode(record.Selector[:]),
			Signature:     record.Signature,
			Name:          record.Name,
			IsStatic:      record.IsStatic,
			IsPayable:     record.IsPayable,
			IsConstructor: record.IsConstructor,
		}
	}
	return views
}
