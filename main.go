package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/cache"
	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	router "backoffice/internal/http"
	"backoffice/internal/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	if env.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("failed to migrate schema: %v", err)
		}
		cancel()
	}

	var creditNotes cache.CreditNoteCache = cache.NoopCreditNoteCache{}
	if env.RedisAddr != "" {
		rc := cache.NewRedisCreditNoteCache(env.RedisAddr, env.RedisPassword, env.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("warning: redis unavailable, credit notes are not cached: %v", err)
			_ = rc.Close()
		} else {
			creditNotes = rc
			defer rc.Close()
		}
		cancel()
	}

	secret := []byte(env.JWTSecret)
	if len(secret) == 0 {
		log.Println("warning: JWT_SECRET not set, using a random secret; tokens will not survive a restart")
		secret = []byte(uuid.NewString())
	}

	handlers.Configure(handlers.Options{
		Cache:     creditNotes,
		CacheTTL:  env.CreditNoteCacheTTL,
		JWTSecret: secret,
		TokenTTL:  env.TokenTTL,
	})
	r := router.NewRouter(env, secret)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
