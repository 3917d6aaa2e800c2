package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// HealthResponse is the body of the JSON endpoints
type HealthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// GuildInfo represents basic guild information
type GuildInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// guildLister is what the health API reads from the bot
type guildLister interface {
	GuildInfos() []GuildInfo
}

// GuildInfos summarizes the connected guilds
func (b *Bot) GuildInfos() []GuildInfo {
	guilds := b.GetGuilds()
	infos := make([]GuildInfo, 0, len(guilds))
	for _, g := range guilds {
		infos = append(infos, GuildInfo{ID: g.ID, Name: g.Name, MemberCount: g.MemberCount})
	}
	return infos
}

// newHealthMux serves the liveness page and the guild listing
func newHealthMux(guilds guildLister) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("🤖 Bot Discord en ligne !"))
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/debug/guilds", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthResponse{
			Success: true,
			Data:    guilds.GuildInfos(),
		})
	})

	return mux
}

// StartHealthAPI serves the health endpoints until ctx is cancelled
func (b *Bot) StartHealthAPI(ctx context.Context, port int) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newHealthMux(b),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Health API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Health API server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to stop health API")
		}
	}()
}
