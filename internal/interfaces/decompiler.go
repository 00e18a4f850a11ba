package interfaces

import (
	"context"

	"go-abi-cache/internal/models"
)

//go:generate mockgen -package=mock -source=decompiler.go -destination=mock/decompiler.go

// Decompiler recovers the raw structural description of contract bytecode
type Decompiler interface {
	Decompile(ctx context.Context, bytecode string) ([]models.RawStructure, error)
}
