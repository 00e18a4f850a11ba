package interfaces

//go:generate mockgen -package=mock -source=keyderiver.go -destination=mock/keyderiver.go

// KeyDeriver turns a bytecode string into a deterministic storage key
type KeyDeriver interface {
	Derive(bytecode string) string
}
