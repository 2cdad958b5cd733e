package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-local/internal/domain/entity"
)

// Search filtra el catálogo por subcadena (consulta sin espacios extremos) sin distinguir mayúsculas en nombre, categoría y
// proveedor; el código de barras se compara tal cual. Consulta vacía devuelve todo el catálogo.
// Mantiene el orden original, sin ranking.
func Search(items []entity.Item, query string) []entity.Item {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]entity.Item, len(items))
		copy(out, items)
		return out
	}

	needle := fold(query)
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if matches(it, query, needle) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it entity.Item, raw, needle string) bool {
	if strings.Contains(fold(it.Name), needle) || strings.Contains(fold(it.Category), needle) {
		return true
	}
	if it.Supplier != nil && strings.Contains(fold(*it.Supplier), needle) {
		return true
	}
	return it.Barcode != nil && strings.Contains(*it.Barcode, raw)
}

// fold normaliza a NFC (hangul compuesto/descompuesto) y aplica case folding Unicode.
// cases.Caser no es seguro para uso concurrente, por eso se crea en cada llamada.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
