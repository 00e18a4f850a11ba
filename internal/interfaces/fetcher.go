package interfaces

import (
	"context"

	"go-abi-cache/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// InterfaceFetcher resolves bytecode into its normalized interface
type InterfaceFetcher interface {
	FetchInterface(ctx context.Context, bytecode string) (*models.FetchResult, error)
	DeriveKey(bytecode string) string
}
