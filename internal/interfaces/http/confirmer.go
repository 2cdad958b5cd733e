package http

import (
	"context"

	"github.com/jhoicas/inventario-local/internal/application/inventory"
)

var _ inventory.Confirmer = RequestConfirmer{}

type confirmKey struct{}

// WithConfirmation guarda en el contexto la respuesta del operador (?confirm=true).
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

// RequestConfirmer responde la confirmación con el valor que el handler dejó en el contexto.
// Sin valor, la respuesta es "no".
type RequestConfirmer struct{}

// Confirm implementa inventory.Confirmer.
func (RequestConfirmer) Confirm(ctx context.Context, _ string) bool {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok
}
