// Package memory is an in-process implementation of the repository
// interfaces. Transactions hold one store-wide lock and roll back by
// restoring a snapshot, which makes every transaction serializable.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
)

type stockKey struct {
	branch  uuid.UUID
	variant uuid.UUID
}

type state struct {
	branches  map[uuid.UUID]entity.Branch
	operators map[uuid.UUID]entity.Operator
	variants  map[uuid.UUID]entity.Variant
	stock     map[stockKey]entity.BranchStock
	customers map[uuid.UUID]entity.Customer
	accounts  map[uuid.UUID]entity.CreditAccount
	movements []entity.CreditMovement
	plans     map[uuid.UUID]entity.InstallmentPlan
	registers map[uuid.UUID]entity.RegisterSession
	sales     map[uuid.UUID]entity.Sale
	lines     []entity.SaleLine
	payments  []entity.Payment
	settings  map[string]entity.AppSetting
}

func newState() *state {
	return &state{
		branches:  map[uuid.UUID]entity.Branch{},
		operators: map[uuid.UUID]entity.Operator{},
		variants:  map[uuid.UUID]entity.Variant{},
		stock:     map[stockKey]entity.BranchStock{},
		customers: map[uuid.UUID]entity.Customer{},
		accounts:  map[uuid.UUID]entity.CreditAccount{},
		plans:     map[uuid.UUID]entity.InstallmentPlan{},
		registers: map[uuid.UUID]entity.RegisterSession{},
		sales:     map[uuid.UUID]entity.Sale{},
		settings:  map[string]entity.AppSetting{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Rows are stored by value and replaced on
// write, so a shallow copy per table is enough.
func (s *state) clone() *state {
	return &state{
		branches:  copyMap(s.branches),
		operators: copyMap(s.operators),
		variants:  copyMap(s.variants),
		stock:     copyMap(s.stock),
		customers: copyMap(s.customers),
		accounts:  copyMap(s.accounts),
		movements: append([]entity.CreditMovement(nil), s.movements...),
		plans:     copyMap(s.plans),
		registers: copyMap(s.registers),
		sales:     copyMap(s.sales),
		lines:     append([]entity.SaleLine(nil), s.lines...),
		payments:  append([]entity.Payment(nil), s.payments...),
		settings:  copyMap(s.settings),
	}
}

// Store is the in-memory database
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// view binds repositories to the store. Inside a transaction the store lock
// is already held.
type view struct {
	store  *Store
	locked bool
}

func (v view) read(fn func(st *state) error) error {
	if !v.locked {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.state)
}

func (s *Store) repositories(locked bool) *domainRepo.Repositories {
	v := view{store: s, locked: locked}
	return &domainRepo.Repositories{
		Branches:  &branchRepo{v},
		Operators: &operatorRepo{v},
		Catalog:   &catalogRepo{v},
		Stock:     &stockRepo{v},
		Credit:    &creditRepo{v},
		Plans:     &planRepo{v},
		Registers: &registerRepo{v},
		Sales:     &saleRepo{v},
		Settings:  &settingsRepo{v},
	}
}

// Repositories returns repositories for use outside a transaction
func (s *Store) Repositories() *domainRepo.Repositories {
	return s.repositories(false)
}

// WithinTransaction runs fn holding the store lock and restores the
// previous state if fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, s.repositories(true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

var _ domainRepo.TxManager = (*Store)(nil)
