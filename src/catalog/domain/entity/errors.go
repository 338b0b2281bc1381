package entity

import "errors"

var (
	// ErrRefreshFailed el refresh remoto falló; el cache viejo sigue usable
	ErrRefreshFailed = errors.New("catalog refresh failed")

	// ErrProductNotFound la búsqueda exacta no encontró el producto
	ErrProductNotFound = errors.New("product not found")
)
