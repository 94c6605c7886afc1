// Package memory implementa los repositorios en memoria. Se usa con DB_DRIVER=memory
// para demos locales sin base de datos y como doble de prueba en los tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// Store guarda todas las tablas. Los repositorios guardan y devuelven copias,
// así los cambios del llamador no alteran el estado sin pasar por Update.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	plans      map[string]entity.Plan
	companies  map[string]entity.Company
	users      map[string]entity.User
	batches    map[string]entity.Batch
	certs      map[string]entity.Certificate
	certData   map[string][]entity.CertificateData // certificate_id → datos
	templates  map[string]entity.TemplateConfig    // company_id → plantilla
	signatures map[string]entity.Signature
	logos      map[string]entity.Logo
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		plans:      map[string]entity.Plan{},
		companies:  map[string]entity.Company{},
		users:      map[string]entity.User{},
		batches:    map[string]entity.Batch{},
		certs:      map[string]entity.Certificate{},
		certData:   map[string][]entity.CertificateData{},
		templates:  map[string]entity.TemplateConfig{},
		signatures: map[string]entity.Signature{},
		logos:      map[string]entity.Logo{},
	}
}

// Repositories agrupa los repositorios sobre un mismo Store.
type Repositories struct {
	Plans        *PlanRepo
	Companies    *CompanyRepo
	Users        *UserRepo
	Batches      *BatchRepo
	Certificates *CertificateRepo
	CertData     *CertificateDataRepo
	Templates    *TemplateRepo
	Signatures   *SignatureRepo
	Logos        *LogoRepo
	Tx           *TxRunner
}

// NewRepositories arma todos los repositorios sobre s.
func NewRepositories(s *Store) *Repositories {
	return &Repositories{
		Plans:        &PlanRepo{s: s},
		Companies:    &CompanyRepo{s: s},
		Users:        &UserRepo{s: s},
		Batches:      &BatchRepo{s: s},
		Certificates: &CertificateRepo{s: s},
		CertData:     &CertificateDataRepo{s: s},
		Templates:    &TemplateRepo{s: s},
		Signatures:   &SignatureRepo{s: s},
		Logos:        &LogoRepo{s: s},
		Tx:           &TxRunner{s: s},
	}
}

// ── Transacciones ─────────────────────────────────────────────────────────────

var (
	_ certificates.IssueTxRunner = (*TxRunner)(nil)
	_ usecase.TenantTxRunner     = (*TxRunner)(nil)
)

// TxRunner serializa las transacciones y, si fn falla, deshace solo las filas que fn escribió.
// Lo que otras peticiones escriban mientras tanto se conserva.
type TxRunner struct {
	s *Store
}

// RunIssue ejecuta fn; ante error deshace sus cambios.
func (r *TxRunner) RunIssue(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	certRepo repository.CertificateRepository,
	dataRepo repository.CertificateDataRepository,
) error) error {
	return r.run(func(j *journal) error {
		return fn(&CompanyRepo{s: r.s, j: j}, &CertificateRepo{s: r.s, j: j}, &CertificateDataRepo{s: r.s, j: j})
	})
}

// RunTenant ejecuta el alta de empresa y administrador; ante error no queda ninguno de los dos.
func (r *TxRunner) RunTenant(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(func(j *journal) error {
		return fn(&CompanyRepo{s: r.s, j: j}, &UserRepo{s: r.s, j: j})
	})
}

func (r *TxRunner) run(fn func(j *journal) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	j := newJournal()
	if err := fn(j); err != nil {
		r.s.mu.Lock()
		j.rollback(r.s)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// prior valor de una fila antes de la primera escritura de la transacción.
type prior[V any] struct {
	value   V
	existed bool
}

// journal valores previos de las filas escritas dentro de una transacción.
// Los incrementos del contador de emitidos se guardan como delta para no pisar
// cambios concurrentes en otras columnas de la empresa. Un journal nil no registra nada.
type journal struct {
	companies map[string]prior[entity.Company]
	issued    map[string]int
	users     map[string]prior[entity.User]
	certs     map[string]prior[entity.Certificate]
	certData  map[string]prior[[]entity.CertificateData]
}

func newJournal() *journal {
	return &journal{
		companies: map[string]prior[entity.Company]{},
		issued:    map[string]int{},
		users:     map[string]prior[entity.User]{},
		certs:     map[string]prior[entity.Certificate]{},
		certData:  map[string]prior[[]entity.CertificateData]{},
	}
}

// Los métodos de registro se llaman con s.mu tomado y antes de escribir.

func (j *journal) company(s *Store, id string) {
	if j != nil {
		remember(j.companies, s.companies, id)
	}
}

func (j *journal) issuedDelta(id string, n int) {
	if j != nil {
		j.issued[id] += n
	}
}

func (j *journal) user(s *Store, id string) {
	if j != nil {
		remember(j.users, s.users, id)
	}
}

func (j *journal) cert(s *Store, id string) {
	if j != nil {
		remember(j.certs, s.certs, id)
	}
}

func (j *journal) data(s *Store, certificateID string) {
	if j != nil {
		remember(j.certData, s.certData, certificateID)
	}
}

func (j *journal) rollback(s *Store) {
	for id, n := range j.issued {
		if c, ok := s.companies[id]; ok {
			c.CertificatesIssued -= n
			s.companies[id] = c
		}
	}
	for id, p := range j.companies {
		if !p.existed {
			delete(s.companies, id)
			continue
		}
		// El contador se conserva: arriba ya se descontaron los deltas de la transacción.
		c := p.value
		if cur, ok := s.companies[id]; ok {
			c.CertificatesIssued = cur.CertificatesIssued
		}
		s.companies[id] = c
	}
	restore(j.users, s.users)
	restore(j.certs, s.certs)
	restore(j.certData, s.certData)
}

func remember[V any](log map[string]prior[V], table map[string]V, key string) {
	if _, done := log[key]; done {
		return
	}
	v, ok := table[key]
	log[key] = prior[V]{value: v, existed: ok}
}

func restore[V any](log map[string]prior[V], table map[string]V) {
	for k, p := range log {
		if p.existed {
			table[k] = p.value
		} else {
			delete(table, k)
		}
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
