package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/config"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/repository"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// stubConverter echoes the TAC back wrapped in a fixed element.
type stubConverter struct {
	failOn string
}

func (s *stubConverter) Convert(_ context.Context, tac string) (string, error) {
	if s.failOn != "" && tac == s.failOn {
		return "", context.DeadlineExceeded
	}
	return "<iwxxm:METAR>" + tac + "</iwxxm:METAR>", nil
}

type recordingNotifier struct {
	tokens []string
}

func (n *recordingNotifier) Deliver(_ context.Context, _, token string) error {
	n.tokens = append(n.tokens, token)
	return nil
}

func setupTestHandler() (*Handler, *recordingNotifier) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	repository.AutoMigrate(db)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		JWTSecret:          "test-secret-12345678901234567890123456789012",
		JWTExpireMinutes:   60,
		ResetExpireMinutes: 30,
		FrontendBaseURL:    "http://localhost:8000",
	}

	store := repository.NewStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	notifier := &recordingNotifier{}
	auth := services.NewAuthService(store, tokens, notifier, logger, time.Duration(cfg.ResetExpireMinutes)*time.Minute)

	h := NewHandler(cfg, logger, auth, &stubConverter{})
	return h, notifier
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter()
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
