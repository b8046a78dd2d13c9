package controllers

import (
	"net/http"

	"github.com/pr-poehali-dev/inventory-management-system-4/api/responses"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/config"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Warehouse-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Warehouse-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
