package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/SoressaKumela/Digital-Examination-System/internal/app"
	"github.com/SoressaKumela/Digital-Examination-System/internal/db"
	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func main() {
	cfg := app.LoadConfig()

	dbConn, err := db.OpenWithConfig(context.Background(), cfg.DBDriver, cfg.DBDSN, db.Config{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		log.Printf("database error: %v", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	st := store.NewSQLStore(dbConn, cfg.DBDriver)
	if err := st.Migrate(context.Background()); err != nil {
		log.Printf("migration error: %v", err)
		os.Exit(1)
	}

	r := app.NewRouter(cfg, st, dbConn)

	log.Printf("examination system listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
