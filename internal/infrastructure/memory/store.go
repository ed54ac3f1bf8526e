// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa con DB_DRIVER=memory (demos, desarrollo local) y como doble de prueba.
package memory

import (
	"strings"
	"sync"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
// mu protege los mapas; txMu serializa las transacciones del libro de movimientos.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	products     map[string]entity.Product
	warehouses   map[string]entity.Warehouse
	kits         map[string]entity.Kit
	components   map[string]entity.KitComponent
	transactions []entity.Transaction
	txIndex      map[string]int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]entity.Product{},
		warehouses: map[string]entity.Warehouse{},
		kits:       map[string]entity.Kit{},
		components: map[string]entity.KitComponent{},
		txIndex:    map[string]int{},
	}
}

// Repositories repositorios atados al almacén.
type Repositories struct {
	Products     *ProductRepository
	Warehouses   *WarehouseRepository
	Kits         *KitRepository
	Transactions *TransactionRepository
	TxRunner     *TxRunner
}

// NewRepositories arma todos los adaptadores sobre el mismo Store.
func NewRepositories(s *Store) *Repositories {
	return &Repositories{
		Products:     &ProductRepository{s: s},
		Warehouses:   &WarehouseRepository{s: s},
		Kits:         &KitRepository{s: s},
		Transactions: &TransactionRepository{s: s},
		TxRunner:     &TxRunner{s: s},
	}
}

// matches búsqueda case-insensitive por subcadena (equivalente a ILIKE '%q%').
func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// page aplica offset/limit sobre n elementos y devuelve el rango [from, to).
func page(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		return n, n
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
