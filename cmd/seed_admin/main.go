// seed_admin crea el primer funcionario ADMIN (activo) para poder aprobar los auto-registros.
//
// Uso: go run ./cmd/seed_admin -email admin@clinica.com -password '...' -name 'Nombre' -cpf 000.000.000-00
// Usa la misma configuración de base de datos que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/insumos-api/pkg/config"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "contraseña (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre")
	cpf := flag.String("cpf", "", "CPF")
	flag.Parse()

	if *email == "" || len(*password) < 8 || *cpf == "" {
		fmt.Fprintln(os.Stderr, "email, cpf y password (>= 8 caracteres) son obligatorios")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Aplicar esquema: %v\n", err)
		os.Exit(1)
	}

	repo := postgres.NewStaffRepository(pool)
	member, err := usecase.NewStaffMember(dto.StaffRequest{
		Name:     *name,
		CPF:      *cpf,
		Email:    *email,
		Password: *password,
	}, entity.RoleAdmin, true, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Datos inválidos: %v\n", err)
		os.Exit(1)
	}
	if err := usecase.EnsureStaffUnique(ctx, repo, "", member.Email, member.CPF); err != nil {
		fmt.Fprintf(os.Stderr, "Administrador no creado: %v\n", err)
		os.Exit(1)
	}
	if err := repo.Create(ctx, member); err != nil {
		fmt.Fprintf(os.Stderr, "Guardar administrador: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Administrador %s creado (id %s)\n", member.Email, member.ID)
}
