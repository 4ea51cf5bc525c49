package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() { bcryptCost = bcrypt.MinCost }

var admin = dto.Actor{ID: 1, Usuario: "admin", Rol: "administrador"}

// ── Audit ────────────────────────────────────────────────────────────────────

type registro struct {
	usuario, modulo, accion, descripcion string
	enTx                                 bool
}

type fakeAudit struct{ registros []registro }

func (f *fakeAudit) Registrar(_ context.Context, actor dto.Actor, modulo, accion, desc string) {
	f.registros = append(f.registros, registro{actor.Usuario, modulo, accion, desc, false})
}

func (f *fakeAudit) RegistrarTx(_ *gorm.DB, actor dto.Actor, modulo, accion, desc string) error {
	f.registros = append(f.registros, registro{actor.Usuario, modulo, accion, desc, true})
	return nil
}

func (f *fakeAudit) Listar(context.Context, dto.AuditoriaFilter) (*dto.AuditoriaListResponse, error) {
	return &dto.AuditoriaListResponse{}, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[int]*model.Usuario
	roles    map[int]*model.Rol
	nextID   int
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	r := &fakeUsuarioRepo{
		usuarios: map[int]*model.Usuario{},
		roles: map[int]*model.Rol{
			1: {ID: 1, Nombre: "administrador"},
			2: {ID: 2, Nombre: "tesoreria"},
			3: {ID: 3, Nombre: "alcaldia"},
		},
		nextID: 1,
	}
	return r
}

func (r *fakeUsuarioRepo) add(u *model.Usuario) *model.Usuario {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	u.Rol = r.roles[u.RolID]
	r.usuarios[u.ID] = u
	return u
}

func (r *fakeUsuarioRepo) FindByUsuario(_ context.Context, usuario string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Usuario == usuario {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id int) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context, f dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if f.Busqueda == "" || strings.Contains(u.Usuario, f.Busqueda) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUsuarioRepo) ListRoles(context.Context) ([]model.Rol, error) {
	var out []model.Rol
	for _, rol := range r.roles {
		out = append(out, *rol)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) FindRolByID(_ context.Context, id int) (*model.Rol, error) {
	rol, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rol, nil
}

func (r *fakeUsuarioRepo) CreateTx(_ *gorm.DB, u *model.Usuario) error {
	u.ID = r.nextID
	c := *u
	r.add(&c)
	return nil
}

func (r *fakeUsuarioRepo) UpdateTx(_ *gorm.DB, u *model.Usuario) error {
	c := *u
	r.usuarios[u.ID] = &c
	return nil
}

func (r *fakeUsuarioRepo) DeleteTx(_ *gorm.DB, id int) (int64, error) {
	if _, ok := r.usuarios[id]; !ok {
		return 0, nil
	}
	delete(r.usuarios, id)
	return 1, nil
}

func (r *fakeUsuarioRepo) DB() *gorm.DB { return nil }

type fakeNotificador struct{ jobs []interface{} }

func (f *fakeNotificador) EnqueueEmail(_ context.Context, p interface{}) error {
	f.jobs = append(f.jobs, p)
	return nil
}

type fakeSesiones struct{ invalidadas []int }

func (f *fakeSesiones) InvalidarSesion(id int) { f.invalidadas = append(f.invalidadas, id) }

// ── Titulares ────────────────────────────────────────────────────────────────

type fakeTitularRepo struct {
	porRol map[int]*model.Titular
	roles  map[int]*model.Rol
}

func newFakeTitularRepo(roles map[int]*model.Rol) *fakeTitularRepo {
	return &fakeTitularRepo{porRol: map[int]*model.Titular{}, roles: roles}
}

func (r *fakeTitularRepo) List(context.Context) ([]model.Titular, error) {
	var out []model.Titular
	for _, t := range r.porRol {
		c := *t
		c.Rol = r.roles[t.RolID]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RolID < out[j].RolID })
	return out, nil
}

func (r *fakeTitularRepo) FindByRol(_ context.Context, rolID int) (*model.Titular, error) {
	t, ok := r.porRol[rolID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *t
	c.Rol = r.roles[rolID]
	return &c, nil
}

func (r *fakeTitularRepo) DeleteByRolTx(_ *gorm.DB, rolID int) (int64, error) {
	if _, ok := r.porRol[rolID]; !ok {
		return 0, nil
	}
	delete(r.porRol, rolID)
	return 1, nil
}

func (r *fakeTitularRepo) CreateTx(_ *gorm.DB, t *model.Titular) error {
	t.ID = len(r.porRol) + 1
	c := *t
	r.porRol[t.RolID] = &c
	return nil
}

func (r *fakeTitularRepo) DB() *gorm.DB { return nil }

// ── Tesoreria ────────────────────────────────────────────────────────────────

type fakePagoRepo struct{ rows []model.PagoDeudor }

func (r *fakePagoRepo) coincide(p *model.PagoDeudor, k repository.PagoClave) bool {
	if p.Caja == nil || p.Folio == nil || p.FechaPago == nil {
		return false
	}
	y1, m1, d1 := p.FechaPago.Date()
	y2, m2, d2 := k.Fecha.Date()
	return *p.Caja == k.Caja && *p.Folio == k.Folio && p.Rut == k.Rut && y1 == y2 && m1 == m2 && d1 == d2
}

func (r *fakePagoRepo) FindByClave(_ context.Context, k repository.PagoClave) ([]model.PagoDeudor, error) {
	var out []model.PagoDeudor
	for i := range r.rows {
		if r.coincide(&r.rows[i], k) {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *fakePagoRepo) ReversarTx(_ *gorm.DB, k repository.PagoClave, item *int) (int64, error) {
	var n int64
	for i := range r.rows {
		p := &r.rows[i]
		if !r.coincide(p, k) || (item != nil && p.Item != *item) {
			continue
		}
		p.Caja, p.Folio, p.FechaPago, p.Pagado = nil, nil, nil, false
		n++
	}
	return n, nil
}

func (r *fakePagoRepo) DB() *gorm.DB { return nil }

func pago(caja, folio int, rut string, fecha time.Time, item int, monto int64) model.PagoDeudor {
	f := fecha
	return model.PagoDeudor{
		Caja:      &caja,
		Folio:     &folio,
		Rut:       rut,
		FechaPago: &f,
		Item:      item,
		Monto:     decimal.NewFromInt(monto),
		Pagado:    true,
	}
}

// ── Decretos ─────────────────────────────────────────────────────────────────

type fakeDecretoRepo struct {
	decretos  map[int]*model.Decreto
	historial []model.DecretoHistorico
	// robado simulates a concurrent request that moves the flag between the
	// read and the guarded update.
	robado bool
}

func newFakeDecretoRepo(ds ...model.Decreto) *fakeDecretoRepo {
	r := &fakeDecretoRepo{decretos: map[int]*model.Decreto{}}
	for i := range ds {
		d := ds[i]
		r.decretos[d.ID] = &d
	}
	return r
}

func (r *fakeDecretoRepo) FindByNumeroAnio(_ context.Context, numero, anio int) (*model.Decreto, error) {
	for _, d := range r.decretos {
		if d.Numero == numero && d.Anio == anio {
			c := *d
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDecretoRepo) List(_ context.Context, f dto.DecretoFilter) ([]model.Decreto, int64, error) {
	var out []model.Decreto
	for _, d := range r.decretos {
		if f.SDF == "" || d.SDF == f.SDF {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })
	return out, int64(len(out)), nil
}

func (r *fakeDecretoRepo) enPeriodo(desde, hasta time.Time) []model.Decreto {
	var out []model.Decreto
	for _, d := range r.decretos {
		if !d.Fecha.Before(desde) && d.Fecha.Before(hasta) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out
}

func (r *fakeDecretoRepo) ListPorPeriodo(_ context.Context, desde, hasta time.Time, page, limit int) ([]model.Decreto, int64, error) {
	all := r.enPeriodo(desde, hasta)
	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeDecretoRepo) SumMontoPorPeriodo(_ context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, d := range r.enPeriodo(desde, hasta) {
		sum = sum.Add(d.Monto)
	}
	return sum, nil
}

func (r *fakeDecretoRepo) ListHistorial(_ context.Context, id int) ([]model.DecretoHistorico, error) {
	var out []model.DecretoHistorico
	for i := len(r.historial) - 1; i >= 0; i-- {
		if r.historial[i].DecretoID == id {
			out = append(out, r.historial[i])
		}
	}
	return out, nil
}

func (r *fakeDecretoRepo) CambiarSDFTx(_ *gorm.DB, id int, desde, hacia string) (int64, error) {
	d, ok := r.decretos[id]
	if !ok {
		return 0, nil
	}
	if r.robado {
		d.SDF = hacia
		return 0, nil
	}
	if d.SDF != desde {
		return 0, nil
	}
	d.SDF = hacia
	return 1, nil
}

func (r *fakeDecretoRepo) CreateHistorialTx(_ *gorm.DB, h *model.DecretoHistorico) error {
	h.Fecha = time.Now()
	r.historial = append(r.historial, *h)
	return nil
}

func (r *fakeDecretoRepo) DB() *gorm.DB { return nil }

// ── CAS ──────────────────────────────────────────────────────────────────────

type fakeCASRepo struct {
	usuarios map[int]*model.UsuarioCAS
	permisos []model.PermisoCAS
	nextID   int
}

func newFakeCASRepo() *fakeCASRepo {
	return &fakeCASRepo{usuarios: map[int]*model.UsuarioCAS{}, nextID: 1}
}

func (r *fakeCASRepo) addUsuario(login string, permisos ...model.PermisoCAS) *model.UsuarioCAS {
	u := &model.UsuarioCAS{ID: r.nextID, Login: login, Nombre: login, Activo: true}
	r.nextID++
	r.usuarios[u.ID] = u
	for _, p := range permisos {
		p.UsuarioID = u.ID
		r.permisos = append(r.permisos, p)
	}
	return u
}

func (r *fakeCASRepo) ListUsuarios(context.Context, dto.UsuarioCASFilter) ([]model.UsuarioCAS, int64, error) {
	var out []model.UsuarioCAS
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCASRepo) FindUsuarioByID(_ context.Context, id int) (*model.UsuarioCAS, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeCASRepo) FindUsuarioByLogin(_ context.Context, login string) (*model.UsuarioCAS, error) {
	for _, u := range r.usuarios {
		if u.Login == login {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCASRepo) ListPermisos(_ context.Context, id int) ([]model.PermisoCAS, error) {
	return r.ListPermisosTx(nil, id)
}

func (r *fakeCASRepo) ListPermisosTx(_ *gorm.DB, id int) ([]model.PermisoCAS, error) {
	var out []model.PermisoCAS
	for _, p := range r.permisos {
		if p.UsuarioID == id {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MenuID < out[j].MenuID })
	return out, nil
}

func (r *fakeCASRepo) CreateUsuarioTx(_ *gorm.DB, u *model.UsuarioCAS) error {
	u.ID = r.nextID
	r.nextID++
	c := *u
	r.usuarios[u.ID] = &c
	return nil
}

func (r *fakeCASRepo) DeleteUsuarioTx(_ *gorm.DB, id int) (int64, error) {
	if _, ok := r.usuarios[id]; !ok {
		return 0, nil
	}
	delete(r.usuarios, id)
	return 1, nil
}

func (r *fakeCASRepo) CreatePermisosTx(_ *gorm.DB, ps []model.PermisoCAS) error {
	r.permisos = append(r.permisos, ps...)
	return nil
}

func (r *fakeCASRepo) DeletePermisosTx(_ *gorm.DB, id int) (int64, error) {
	var keep []model.PermisoCAS
	var n int64
	for _, p := range r.permisos {
		if p.UsuarioID == id {
			n++
			continue
		}
		keep = append(keep, p)
	}
	r.permisos = keep
	return n, nil
}

func (r *fakeCASRepo) UpsertPermisoTx(_ *gorm.DB, p *model.PermisoCAS) error {
	for i := range r.permisos {
		if r.permisos[i].UsuarioID == p.UsuarioID && r.permisos[i].MenuID == p.MenuID {
			p.ID = r.permisos[i].ID
			r.permisos[i] = *p
			return nil
		}
	}
	p.ID = len(r.permisos) + 1
	r.permisos = append(r.permisos, *p)
	return nil
}

func (r *fakeCASRepo) DB() *gorm.DB { return nil }

var (
	_ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)
	_ repository.TitularRepository = (*fakeTitularRepo)(nil)
	_ repository.PagoRepository    = (*fakePagoRepo)(nil)
	_ repository.DecretoRepository = (*fakeDecretoRepo)(nil)
	_ repository.CASRepository     = (*fakeCASRepo)(nil)
	_ AuditoriaService             = (*fakeAudit)(nil)
)
