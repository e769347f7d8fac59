package repository

// SequenceRepository define el puerto del generador de consecutivos.
// Next incrementa y devuelve el contador del scope (ej. "SALE-2026") de forma
// atómica: monotónico y único aun bajo creación concurrente.
type SequenceRepository interface {
	Next(scope string) (int64, error)
}
