package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/csec08/authlab/adapters/store"
	"github.com/csec08/authlab/adapters/tokenizer"
	"github.com/csec08/authlab/core"
	"github.com/csec08/authlab/internal/eth"
	"github.com/csec08/authlab/service"
)

type discardRecorder struct{}

func (discardRecorder) RecordAttempt(context.Context, core.AttemptRecord) error { return nil }

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	identities := store.NewMemoryIdentityStore()
	authService := service.NewAuthService(
		store.NewMemoryChallengeStore(5*time.Minute),
		identities,
		service.NewCredentialVerifier(identities, bcrypt.MinCost),
		tokenizer.NewJWTTokenizer([]byte("test-secret"), time.Hour),
		service.NewRateLimiter(5, 300*time.Second),
		discardRecorder{},
		zerolog.Nop(),
	)
	return SetupRouter(authService)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	return w, parsed
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, http.MethodPost, "/api/auth/register/traditional",
		gin.H{"username": "alice", "password": "Passw0rd!"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "TRADITIONAL", body["auth_method"])

	// Duplicate username surfaces the wire triple with 409.
	w, body = doJSON(t, router, http.MethodPost, "/api/auth/register/traditional",
		gin.H{"username": "alice", "password": "Other-Passw0rd1"}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "USERNAME_EXISTS", body["error"])
	require.Equal(t, "USABILITY", body["category"])
	require.NotEmpty(t, body["message"])
}

func TestRegisterWeakPassword(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, http.MethodPost, "/api/auth/register/traditional",
		gin.H{"username": "alice", "password": "short"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "WEAK_PASSWORD", body["error"])
	require.Equal(t, "USABILITY", body["category"])
}

func TestRegisterMissingFields(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, http.MethodPost, "/api/auth/register/traditional",
		gin.H{"username": "alice"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "MISSING_FIELDS", body["error"])
}

func TestTraditionalLoginEndpoint(t *testing.T) {
	router := newTestRouter()

	_, _ = doJSON(t, router, http.MethodPost, "/api/auth/register/traditional",
		gin.H{"username": "alice", "password": "Passw0rd!"}, nil)

	w, body := doJSON(t, router, http.MethodPost, "/api/auth/login/traditional",
		gin.H{"username": "alice", "password": "wrong-passw0rd"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "INVALID_CREDENTIALS", body["error"])
	require.Equal(t, "USABILITY", body["category"])

	w, body = doJSON(t, router, http.MethodPost, "/api/auth/login/traditional",
		gin.H{"username": "alice", "password": "Passw0rd!", "telemetry": gin.H{"time_taken_ms": 1500}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "CONTROL", user["cohort"])

	// The issued token authenticates the session endpoint.
	w, body = doJSON(t, router, http.MethodGet, "/api/auth/session", nil,
		map[string]string{"Authorization": "Bearer " + body["token"].(string)})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["valid"])
	require.Equal(t, "TRADITIONAL", body["user"].(map[string]any)["auth_method"])
}

func TestWalletLoginEndpoints(t *testing.T) {
	router := newTestRouter()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	w, body := doJSON(t, router, http.MethodGet, "/api/auth/nonce/"+address, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	message := body["message"].(string)
	require.NotEmpty(t, body["nonce"])
	require.NotEmpty(t, body["expires_at"])

	sig, err := crypto.Sign(eth.PersonalHash(message), key)
	require.NoError(t, err)
	sig[64] += 27

	w, body = doJSON(t, router, http.MethodPost, "/api/auth/verify",
		gin.H{"address": address, "signature": hexutil.Encode(sig)}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	require.Equal(t, address, user["wallet_address"])
	require.Equal(t, "EXPERIMENTAL", user["cohort"])

	// Replaying the consumed challenge fails closed.
	w, body = doJSON(t, router, http.MethodPost, "/api/auth/verify",
		gin.H{"address": address, "signature": hexutil.Encode(sig)}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "NONCE_NOT_FOUND", body["error"])
	require.Equal(t, "SYSTEM", body["category"])
}

func TestNonceInvalidAddress(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, http.MethodGet, "/api/auth/nonce/not-an-address", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_ADDRESS", body["error"])
	require.Equal(t, "SYSTEM", body["category"])
}

func TestSessionRequiresBearerToken(t *testing.T) {
	router := newTestRouter()

	for _, headers := range []map[string]string{
		nil,
		{"Authorization": "Basic abc"},
		{"Authorization": "Bearer not.a.jwt"},
	} {
		w, body := doJSON(t, router, http.MethodGet, "/api/auth/session", nil, headers)
		require.Equal(t, http.StatusUnauthorized, w.Code, fmt.Sprintf("headers %v", headers))
		require.Equal(t, "INVALID_TOKEN", body["error"])
	}
}

func TestTelemetryLogEndpoint(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, http.MethodPost, "/api/telemetry/log",
		gin.H{"auth_method": "DID", "error_code": "USER_REJECTED_SIGNATURE",
			"telemetry": gin.H{"time_taken_ms": 700}}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])

	w, body = doJSON(t, router, http.MethodPost, "/api/telemetry/log",
		gin.H{"auth_method": "DID"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "MISSING_FIELDS", body["error"])
}
