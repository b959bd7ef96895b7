package instance

import "github.com/amolina-dev/biblioteca-backend/pkg/env"

// GetID identifies this worker replica in logs and published events.
func GetID() string {
	return env.Get("BIBLIOTECA_WORKER_ID", "worker-0")
}
