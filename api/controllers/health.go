package controllers

import (
	"context"
	"net/http"

	"github.com/amolina-dev/biblioteca-backend/api/responses"
	"github.com/amolina-dev/biblioteca-backend/pkg/config"
	pkgerrors "github.com/amolina-dev/biblioteca-backend/pkg/errors"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

// Pinger is the readiness probe the database client satisfies.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Healthz(cfg *config.Config, logg *logger.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok", "env": cfg.App.Env})
	}
}
