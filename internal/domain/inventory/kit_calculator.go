package inventory

import (
	"math"
	"sort"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// KitLine expansión de un kit: unidades de un producto requeridas por una unidad del kit.
type KitLine struct {
	ProductID   string
	UnitsPerKit int64
}

// LinesFromComponents convierte la composición del kit en líneas de expansión.
// Filas repetidas de un mismo producto (datos heredados) se consolidan sumando cantidades.
func LinesFromComponents(components []*entity.KitComponent) []KitLine {
	lines := make([]KitLine, 0, len(components))
	pos := make(map[string]int, len(components))
	for _, c := range components {
		if i, ok := pos[c.ProductID]; ok {
			lines[i].UnitsPerKit += c.Quantity
			continue
		}
		pos[c.ProductID] = len(lines)
		lines = append(lines, KitLine{ProductID: c.ProductID, UnitsPerKit: c.Quantity})
	}
	return lines
}

// IssuableKits calcula cuántos kits se pueden armar con el stock dado (servicio de dominio).
// Kits = min( floor(onHand[producto] / unidadesPorKit) ) sobre todos los componentes.
// Un kit sin componentes nunca es despachable: devuelve 0.
func IssuableKits(lines []KitLine, onHand map[string]int64) int64 {
	if len(lines) == 0 {
		return 0
	}
	var result int64 = -1
	for _, l := range lines {
		if l.UnitsPerKit <= 0 {
			return 0
		}
		stock := onHand[l.ProductID]
		if stock < 0 {
			stock = 0
		}
		n := stock / l.UnitsPerKit
		if result < 0 || n < result {
			result = n
		}
	}
	return result
}

// ExplodeKit devuelve la cantidad de cada producto que consume despachar kitQuantity kits.
func ExplodeKit(lines []KitLine, kitQuantity int64) []KitLine {
	out := make([]KitLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, KitLine{ProductID: l.ProductID, UnitsPerKit: l.UnitsPerKit * kitQuantity})
	}
	return out
}

// SortedProductIDs ids de producto en orden estable; define el orden de bloqueo para evitar deadlocks.
func SortedProductIDs(lines []KitLine) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// ReceiptFits indica si una entrada de quantity cabe sobre received sin desbordar int64.
func ReceiptFits(received, quantity int64) bool {
	return quantity <= math.MaxInt64-received
}
