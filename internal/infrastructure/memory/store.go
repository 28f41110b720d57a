// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Respaldo para tests y para el modo demo (sin DATABASE_URL);
// en producción el backend usa PostgreSQL.
package memory

import (
	"fmt"
	"sync"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// Store estado compartido en memoria. Un solo lock: mu protege los mapas en
// operaciones sueltas, y el tx runner lo retiene en modo escritura durante la
// transacción completa, de modo que un lector fuera de tx nunca observa
// estado sin confirmar (equivale al aislamiento de la BD real).
type Store struct {
	mu sync.RWMutex

	items     map[string]entity.StockItem
	locations map[string]entity.Location
	stocks    map[string]entity.Stock        // key: itemID|locationID
	movements []entity.MovementEntry         // append-only
	sequences map[string]int64               // key: branchID|kind|year
	accounts  map[string]entity.PartyAccount // key: partyID
}

// NewStore crea el almacén vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]entity.StockItem),
		locations: make(map[string]entity.Location),
		stocks:    make(map[string]entity.Stock),
		sequences: make(map[string]int64),
		accounts:  make(map[string]entity.PartyAccount),
	}
}

func stockKey(itemID, locationID string) string {
	return itemID + "|" + locationID
}

func seqKey(branchID, kind string, year int) string {
	return fmt.Sprintf("%s|%s|%d", branchID, kind, year)
}

// snapshot copia el estado mutable para poder revertir una transacción
// fallida (equivalente al Rollback de la BD).
type snapshot struct {
	stocks    map[string]entity.Stock
	movements []entity.MovementEntry
	sequences map[string]int64
	accounts  map[string]entity.PartyAccount
}

// takeSnapshot copia el estado. El caller ya retiene mu.
func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		stocks:    make(map[string]entity.Stock, len(s.stocks)),
		movements: make([]entity.MovementEntry, len(s.movements)),
		sequences: make(map[string]int64, len(s.sequences)),
		accounts:  make(map[string]entity.PartyAccount, len(s.accounts)),
	}
	for k, v := range s.stocks {
		snap.stocks[k] = v
	}
	copy(snap.movements, s.movements)
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	return snap
}

// restore revierte al estado del snapshot. El caller ya retiene mu.
func (s *Store) restore(snap snapshot) {
	s.stocks = snap.stocks
	s.movements = snap.movements
	s.sequences = snap.sequences
	s.accounts = snap.accounts
}
