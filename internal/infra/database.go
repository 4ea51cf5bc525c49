package infra

import (
	"fmt"
	"time"

	"aplicas/internal/config"
	"aplicas/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Databases groups the connections to the municipal databases. When two
// logical databases share a URL they share one pool.
type Databases struct {
	App       *gorm.DB // USUARIO, ROL, titular, auditoria
	Tesoreria *gorm.DB // EncabezadoDeudoresMunicipales
	Finanzas  *gorm.DB // EncabezadoDecretos, SDF_Estados_Decreto_Historico
	CAS       *gorm.DB // Usuario, Permisos
}

// NewDatabase opens a GORM connection with the given driver ("sqlserver" or
// "postgres"). The schema of the municipal databases is owned by the DBA;
// nothing is migrated here.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlserver", "":
		dialector = sqlserver.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().Local() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// NewDatabases opens every configured database, reusing the pool for URLs
// that repeat.
func NewDatabases(cfg *config.Config) (*Databases, error) {
	pools := map[string]*gorm.DB{}
	open := func(name, dsn string) (*gorm.DB, error) {
		if db, ok := pools[dsn]; ok {
			return db, nil
		}
		db, err := NewDatabase(cfg.DBDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("database %s: %w", name, err)
		}
		pools[dsn] = db
		return db, nil
	}

	var (
		dbs Databases
		err error
	)
	if dbs.App, err = open("app", cfg.DatabaseURL); err != nil {
		return nil, err
	}
	if dbs.Tesoreria, err = open("tesoreria", cfg.TesoreriaDatabaseURL); err != nil {
		return nil, err
	}
	if dbs.Finanzas, err = open("finanzas", cfg.FinanzasDatabaseURL); err != nil {
		return nil, err
	}
	if dbs.CAS, err = open("cas", cfg.CASDatabaseURL); err != nil {
		return nil, err
	}
	return &dbs, nil
}

// Named lists the distinct connections for health checks and shutdown.
func (d *Databases) Named() map[string]*gorm.DB {
	return map[string]*gorm.DB{
		"app":       d.App,
		"tesoreria": d.Tesoreria,
		"finanzas":  d.Finanzas,
		"cas":       d.CAS,
	}
}

// Close closes every distinct pool once.
func (d *Databases) Close() {
	seen := map[*gorm.DB]bool{}
	for _, db := range d.Named() {
		if db == nil || seen[db] {
			continue
		}
		seen[db] = true
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// RunMigrations creates the tables of every logical database. It is used by
// tests and by `aplicasctl migrate` on development setups only; production
// schemas are managed by the municipality.
func RunMigrations(d *Databases) error {
	steps := []struct {
		name   string
		db     *gorm.DB
		models []interface{}
	}{
		{"app", d.App, []interface{}{&model.Rol{}, &model.Usuario{}, &model.Titular{}, &model.Auditoria{}}},
		{"tesoreria", d.Tesoreria, []interface{}{&model.PagoDeudor{}}},
		{"finanzas", d.Finanzas, []interface{}{&model.Decreto{}, &model.DecretoHistorico{}}},
		{"cas", d.CAS, []interface{}{&model.UsuarioCAS{}, &model.PermisoCAS{}}},
	}
	for _, s := range steps {
		if err := s.db.AutoMigrate(s.models...); err != nil {
			return fmt.Errorf("AutoMigrate %s: %w", s.name, err)
		}
	}
	return nil
}

// SeedRoles inserts the fixed application roles when missing.
func SeedRoles(db *gorm.DB, nombres []string) error {
	for _, n := range nombres {
		if err := db.Where(model.Rol{Nombre: n}).FirstOrCreate(&model.Rol{Nombre: n}).Error; err != nil {
			return fmt.Errorf("seed rol %s: %w", n, err)
		}
	}
	return nil
}
