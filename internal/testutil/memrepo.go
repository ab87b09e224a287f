// Package testutil provee repositorios en memoria para pruebas de casos de
// uso y handlers, con la misma semántica de errores que los adaptadores de
// PostgreSQL: duplicados, no-encontrado y borrado en cascada.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/tu-usuario/facturacion-api/internal/application/billing"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

// Store estado compartido de los repos en memoria.
type Store struct {
	mu        sync.Mutex
	customers map[string]*entity.Customer
	users     map[string]*entity.User
	docs      map[entity.DocumentKind]map[string]*entity.Document
	items     map[entity.DocumentKind]map[string]*entity.LineItem
	counters  map[entity.DocumentKind]int64
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*entity.Customer),
		users:     make(map[string]*entity.User),
		docs: map[entity.DocumentKind]map[string]*entity.Document{
			entity.KindInvoice:   {},
			entity.KindQuotation: {},
		},
		items: map[entity.DocumentKind]map[string]*entity.LineItem{
			entity.KindInvoice:   {},
			entity.KindQuotation: {},
		},
		counters: make(map[entity.DocumentKind]int64),
	}
}

// CustomerRepo devuelve un CustomerRepository sobre el Store.
func (s *Store) CustomerRepo() repository.CustomerRepository { return &customerRepo{s: s} }

// DocumentRepo devuelve un DocumentRepository del tipo indicado.
func (s *Store) DocumentRepo(kind entity.DocumentKind) repository.DocumentRepository {
	return &documentRepo{s: s, kind: kind}
}

// UserRepo devuelve un UserRepository sobre el Store.
func (s *Store) UserRepo() repository.UserRepository { return &userRepo{s: s} }

// SequenceRepo devuelve un SequenceRepository sobre el Store.
func (s *Store) SequenceRepo() repository.SequenceRepository { return &sequenceRepo{s: s} }

// TxRunner devuelve un billing.TxRunner que ejecuta fn sobre el Store y
// restaura el estado previo si fn falla (simula el rollback).
func (s *Store) TxRunner() billing.TxRunner { return &txRunner{s: s} }

// CountDocs devuelve cuántos documentos del tipo hay almacenados.
func (s *Store) CountDocs(kind entity.DocumentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[kind])
}

// CountItems devuelve cuántas líneas del tipo hay almacenadas.
func (s *Store) CountItems(kind entity.DocumentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items[kind])
}

// ── Customers ─────────────────────────────────────────────────────────────────

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == customer.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *customer
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) List() ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *customerRepo) Update(customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.ID != customer.ID && c.Email == customer.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *customer
	r.s.customers[customer.ID] = &cp
	return nil
}

func (r *customerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	// Cascada: documentos del cliente y sus líneas, como la FK en PostgreSQL.
	for kind, docs := range r.s.docs {
		for docID, doc := range docs {
			if doc.CustomerID != id {
				continue
			}
			delete(docs, docID)
			for itemID, item := range r.s.items[kind] {
				if item.DocumentID == docID {
					delete(r.s.items[kind], itemID)
				}
			}
		}
	}
	return nil
}

// ── Documents ─────────────────────────────────────────────────────────────────

type documentRepo struct {
	s    *Store
	kind entity.DocumentKind
}

func (r *documentRepo) Create(doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *doc
	cp.Customer, cp.Items = nil, nil
	r.s.docs[r.kind][doc.ID] = &cp
	return nil
}

func (r *documentRepo) CreateItem(item *entity.LineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *item
	r.s.items[r.kind][item.ID] = &cp
	return nil
}

func (r *documentRepo) GetByID(id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[r.kind][id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *documentRepo) GetItems(documentID string) ([]*entity.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.LineItem
	for _, item := range r.s.items[r.kind] {
		if item.DocumentID == documentID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *documentRepo) List() ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Document, 0, len(r.s.docs[r.kind]))
	for _, doc := range r.s.docs[r.kind] {
		cp := *doc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Number > out[j].Number
	})
	return out, nil
}

func (r *documentRepo) ListByCustomer(customerID string) ([]*entity.Document, error) {
	all, _ := r.List()
	var out []*entity.Document
	for _, doc := range all {
		if doc.CustomerID == customerID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *documentRepo) Update(doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[r.kind][doc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *doc
	cp.Customer, cp.Items = nil, nil
	r.s.docs[r.kind][doc.ID] = &cp
	return nil
}

func (r *documentRepo) DeleteItems(documentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, item := range r.s.items[r.kind] {
		if item.DocumentID == documentID {
			delete(r.s.items[r.kind], id)
		}
	}
	return nil
}

func (r *documentRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[r.kind][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.docs[r.kind], id)
	for itemID, item := range r.s.items[r.kind] {
		if item.DocumentID == id {
			delete(r.s.items[r.kind], itemID)
		}
	}
	return nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

// ── Sequences ─────────────────────────────────────────────────────────────────

type sequenceRepo struct{ s *Store }

func (r *sequenceRepo) Next(kind entity.DocumentKind) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counters[kind]++
	return r.s.counters[kind], nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type txRunner struct{ s *Store }

func (t *txRunner) Run(ctx context.Context, fn func(
	invoices repository.DocumentRepository,
	quotations repository.DocumentRepository,
	customers repository.CustomerRepository,
	sequences repository.SequenceRepository,
) error) error {
	snap := t.s.snapshot()
	err := fn(
		t.s.DocumentRepo(entity.KindInvoice),
		t.s.DocumentRepo(entity.KindQuotation),
		t.s.CustomerRepo(),
		t.s.SequenceRepo(),
	)
	if err != nil {
		t.s.restore(snap) // rollback
		return err
	}
	return nil
}

type storeSnapshot struct {
	customers map[string]*entity.Customer
	users     map[string]*entity.User
	docs      map[entity.DocumentKind]map[string]*entity.Document
	items     map[entity.DocumentKind]map[string]*entity.LineItem
	counters  map[entity.DocumentKind]int64
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		customers: make(map[string]*entity.Customer, len(s.customers)),
		users:     make(map[string]*entity.User, len(s.users)),
		docs:      make(map[entity.DocumentKind]map[string]*entity.Document),
		items:     make(map[entity.DocumentKind]map[string]*entity.LineItem),
		counters:  make(map[entity.DocumentKind]int64, len(s.counters)),
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for kind, m := range s.docs {
		snap.docs[kind] = make(map[string]*entity.Document, len(m))
		for k, v := range m {
			snap.docs[kind][k] = v
		}
	}
	for kind, m := range s.items {
		snap.items[kind] = make(map[string]*entity.LineItem, len(m))
		for k, v := range m {
			snap.items[kind][k] = v
		}
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = snap.customers
	s.users = snap.users
	s.docs = snap.docs
	s.items = snap.items
	s.counters = snap.counters
}
