package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelasquez/courseapi/internal/auth"
	"github.com/avelasquez/courseapi/internal/config"
	"github.com/avelasquez/courseapi/internal/courses"
	"github.com/avelasquez/courseapi/internal/middleware"
	"github.com/avelasquez/courseapi/internal/store"
)

// newRouter wires the handlers and their guards to the route table.
func newRouter(users auth.UserStore, courseStore courses.CourseStore, cache *courses.Cache) *chi.Mux {
	authHandler := auth.NewHandler(users)
	courseHandler := courses.NewHandler(courseStore, cache)
	requireAuth := middleware.RequireAuth(users)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(requireAuth).Get("/", authHandler.Me)
			r.Post("/", authHandler.Register)
		})
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)
			r.Get("/{id}", courseHandler.Get)
			r.With(requireAuth).Post("/", courseHandler.Create)
			r.With(requireAuth).Put("/{id}", courseHandler.Update)
			r.With(requireAuth).Delete("/{id}", courseHandler.Delete)
		})
	})

	return r
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ───────────────────────────────────────────
	if err := store.RunMigrations(ctx, cfg.PostgresDSN); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)

	// ── Redis (optional course read cache) ───────────────────
	var cache *courses.Cache
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		cache = courses.NewCache(rdb)
	}

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(pgStore, pgStore, cache),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Course API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
