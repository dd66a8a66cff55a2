package service

import "errors"

// Sentinel errors returned by the services. Callers wrap them with context
// via fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrValidacion: malformed input, nothing was written.
	ErrValidacion = errors.New("datos invalidos")

	// ErrNoEncontrado: a referenced producto, venta or caja does not exist.
	ErrNoEncontrado = errors.New("no encontrado")

	// ErrVentaCerrada: the venta belongs to a cierre de caja and is immutable.
	ErrVentaCerrada = errors.New("la venta pertenece a una caja cerrada y no puede modificarse")

	// ErrNadaParaCerrar: cierre de caja requested with no pending ventas.
	ErrNadaParaCerrar = errors.New("No hay ventas pendientes para cerrar.")
)
