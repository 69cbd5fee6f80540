package restapi

import (
	"net/http"
	"time"

	"busradar.dev/internal/models"
)

type healthEntry struct {
	Status          string `json:"status"`
	CachedLines     int    `json:"cachedLines"`
	CacheAgeSeconds *int64 `json:"cacheAgeSeconds"`
	UptimeSeconds   int64  `json:"uptimeSeconds"`
}

func (api *RestAPI) health() healthEntry {
	status := api.Transit.Lines.Status()
	entry := healthEntry{
		Status:        "ok",
		CachedLines:   status.Count,
		UptimeSeconds: int64(time.Since(api.StartedAt).Seconds()),
	}
	if status.Cached {
		age := int64(status.Age.Seconds())
		entry.CacheAgeSeconds = &age
	}
	return entry
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.health()))
}
