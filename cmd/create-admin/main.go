package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/docentia/tutorias-backend/internal/config"
	"github.com/docentia/tutorias-backend/internal/database"
	"github.com/docentia/tutorias-backend/internal/logger"
	"github.com/docentia/tutorias-backend/internal/model"
	"github.com/docentia/tutorias-backend/internal/repository"
	"github.com/docentia/tutorias-backend/internal/service"
	"golang.org/x/term"
)

// Admin accounts are provisioned here rather than over HTTP; the
// register endpoint only ever creates regular docentes.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Best-effort: creating the admin must invalidate the cached public
	// docente list a running server may be serving. Without Redis the
	// account is still created; the cache just ages out on its TTL.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; docente list cache will not be invalidated")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// ─── Initialize Services ───────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	docenteRepo := repository.NewDocenteRepository(pool)
	docenteService := service.NewDocenteService(docenteRepo, rdb, cfg, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin Docente ===")

	fmt.Print("Enter Nombre: ")
	nombre, _ := reader.ReadString('\n')
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		fmt.Println("Error: Nombre is required")
		return
	}

	fmt.Print("Enter Correo: ")
	correo, _ := reader.ReadString('\n')
	correo = strings.TrimSpace(correo)
	if correo == "" {
		fmt.Println("Error: Correo is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.Docente{
		Nombre:       nombre,
		Correo:       correo,
		PasswordHash: hash,
		IsAdmin:      true,
	}

	if err := docenteService.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Nombre, admin.Correo, admin.ID)
}
