package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"aplicas/internal/acceso"
	"aplicas/internal/config"
	"aplicas/internal/infra"
	"aplicas/internal/model"
	"aplicas/internal/repository"
	"aplicas/internal/router"
	"aplicas/internal/service"
	"aplicas/internal/worker"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type configLoader func() (*config.Config, error)

// bcryptCost matches the cost used for users created through the API.
var bcryptCost = 12

func newHashPasswordCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password [clave]",
		Short: "Imprime el hash bcrypt de una clave (lee stdin si se omite)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clave, err := claveDe(args)
			if err != nil {
				return err
			}
			h, err := bcrypt.GenerateFromPassword([]byte(clave), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 12, "Costo bcrypt")
	return cmd
}

func newSeedUserCmd(load configLoader) *cobra.Command {
	var usuario, nombre, clave, rol string
	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Crea o actualiza un usuario de la aplicacion (crea los roles si faltan)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if usuario == "" || clave == "" {
				return errors.New("--usuario y --clave son obligatorios")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := infra.SeedRoles(db, acceso.Roles()); err != nil {
				return err
			}

			u, r, err := sembrarUsuario(db, usuario, nombre, clave, rol, bcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuario %s (id %d) listo con rol %s\n", u.Usuario, u.ID, r.Nombre)
			return nil
		},
	}
	cmd.Flags().StringVar(&usuario, "usuario", "", "Nombre de usuario")
	cmd.Flags().StringVar(&nombre, "nombre", "Administrador", "Nombre completo")
	cmd.Flags().StringVar(&clave, "clave", "", "Clave en texto plano")
	cmd.Flags().StringVar(&rol, "rol", acceso.RolAdministrador, "Rol")
	return cmd
}

// sembrarUsuario creates or updates an app user and writes its audit record
// in the same transaction, as the "sistema" actor.
func sembrarUsuario(db *gorm.DB, usuario, nombre, clave, rol string, cost int) (*model.Usuario, *model.Rol, error) {
	var r model.Rol
	if err := db.Where("nombre = ?", rol).First(&r).Error; err != nil {
		return nil, nil, fmt.Errorf("rol %q: %w", rol, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(clave), cost)
	if err != nil {
		return nil, nil, err
	}

	audit := service.NewAuditoriaService(repository.NewAuditoriaRepository(db))
	var u model.Usuario
	err = db.Transaction(func(tx *gorm.DB) error {
		accion := "actualizar"
		err := tx.Where("usuario = ?", usuario).First(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			accion = "crear"
			u = model.Usuario{Nombre: nombre, Usuario: usuario, Clave: string(hash), RolID: r.ID, Activo: true}
			if err := tx.Omit("Rol").Create(&u).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			err := tx.Model(&u).Updates(map[string]interface{}{
				"nombre": nombre, "clave": string(hash), "rol_id": r.ID, "activo": true,
			}).Error
			if err != nil {
				return err
			}
		}
		return audit.RegistrarTx(tx, service.ActorSistema, service.ModuloUsuarios, accion,
			fmt.Sprintf("Usuario %s (id %d) con rol %s desde aplicasctl seed-user", u.Usuario, u.ID, r.Nombre))
	})
	if err != nil {
		return nil, nil, err
	}
	return &u, &r, nil
}

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea las tablas en bases de desarrollo (no usar contra las bases municipales)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return errors.New("migrate no se ejecuta con APP_ENV=production")
			}
			dbs, err := infra.NewDatabases(cfg)
			if err != nil {
				return err
			}
			defer dbs.Close()
			if err := infra.RunMigrations(dbs); err != nil {
				return err
			}
			return infra.SeedRoles(dbs.App, acceso.Roles())
		},
	}
}

func newExportTransparenciaCmd(load configLoader) *cobra.Command {
	var anio, mes int
	var dir string
	cmd := &cobra.Command{
		Use:   "export-transparencia",
		Short: "Genera el CSV y PDF de transparencia de un mes (por defecto el anterior)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if anio == 0 || mes == 0 {
				now := time.Now()
				prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
				anio, mes = prev.Year(), int(prev.Month())
			}
			if mes < 1 || mes > 12 {
				return fmt.Errorf("mes invalido: %d", mes)
			}
			if dir == "" {
				dir = cfg.ExportStoragePath
			}
			dbs, err := infra.NewDatabases(cfg)
			if err != nil {
				return err
			}
			defer dbs.Close()

			svc := router.NewServices(cfg, dbs, nil)
			paths, err := svc.Transparencia.GenerarArchivos(cmd.Context(), anio, mes, dir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&anio, "anio", 0, "Anio")
	cmd.Flags().IntVar(&mes, "mes", 0, "Mes (1-12)")
	cmd.Flags().StringVar(&dir, "dir", "", "Directorio de salida (default EXPORT_STORAGE_PATH)")
	return cmd
}

func newDLQCmd(load configLoader) *cobra.Command {
	var mostrar int64
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Muestra los correos que agotaron sus reintentos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			rdb, err := infra.NewRedis(cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()

			ctx := cmd.Context()
			n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s: %d\n", worker.DLQPrefix, worker.QueueEmail, n)
			if mostrar <= 0 || n == 0 {
				return nil
			}
			entries, err := worker.ListarDLQ(ctx, rdb, worker.QueueEmail, mostrar)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s intentos=%d  %s  %s\n",
					e.Fecha.Format(time.RFC3339), e.JobType, e.Attempts, e.Reason, e.Payload)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&mostrar, "mostrar", 10, "Entradas mas recientes a imprimir")
	return cmd
}

func claveDe(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("leer clave: %w", err)
	}
	clave := strings.TrimRight(line, "\r\n")
	if clave == "" {
		return "", errors.New("clave vacia")
	}
	return clave, nil
}
