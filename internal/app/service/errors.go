package service

import "fmt"

// StoreError envuelve cualquier fallo del store (conexión, permisos, query mal formada).
type StoreError struct {
	Op  string // delete | count
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("signal store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
