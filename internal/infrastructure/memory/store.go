// Package memory implementa los puertos de persistencia del kardex sobre
// estructuras en memoria. Respaldado por un solo RWMutex: las transacciones
// toman el lock de escritura completo, así que el bloqueo por fila de
// PostgreSQL degenera aquí en exclusión total, que preserva las mismas
// garantías. Pensado para tests y para correr la API sin base de datos.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

type balanceKey struct {
	lotID    string
	location string
}

// Store contiene los tres almacenes lógicos del kardex.
type Store struct {
	mu        sync.RWMutex
	lots      map[string]*entity.Lot
	movements []*entity.Movement
	movByID   map[string]*entity.Movement
	balances  map[balanceKey]*entity.Balance
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		lots:     make(map[string]*entity.Lot),
		movByID:  make(map[string]*entity.Movement),
		balances: make(map[balanceKey]*entity.Balance),
	}
}

// snapshot clona el estado para poder restaurarlo si la transacción falla.
// Los movimientos son inmutables, basta copiar el slice y el índice; lotes y
// saldos se clonan por valor porque sí se mutan en sitio.
func (s *Store) snapshot() *Store {
	snap := &Store{
		lots:      make(map[string]*entity.Lot, len(s.lots)),
		movements: append([]*entity.Movement(nil), s.movements...),
		movByID:   make(map[string]*entity.Movement, len(s.movByID)),
		balances:  make(map[balanceKey]*entity.Balance, len(s.balances)),
	}
	for id, lot := range s.lots {
		clone := *lot
		snap.lots[id] = &clone
	}
	for id, m := range s.movByID {
		snap.movByID[id] = m
	}
	for k, b := range s.balances {
		clone := *b
		snap.balances[k] = &clone
	}
	return snap
}

// restore vuelve al estado del snapshot.
func (s *Store) restore(snap *Store) {
	s.lots = snap.lots
	s.movements = snap.movements
	s.movByID = snap.movByID
	s.balances = snap.balances
}

func (s *Store) upsertBalance(lotID, location string, delta func(*entity.Balance)) {
	k := balanceKey{lotID, location}
	bal, ok := s.balances[k]
	if !ok {
		bal = &entity.Balance{LotID: lotID, Location: location}
		s.balances[k] = bal
	}
	delta(bal)
	bal.UpdatedAt = time.Now()
}
