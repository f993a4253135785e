package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/maisonessence/parfumerie-backend/api/responses"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
	"github.com/maisonessence/parfumerie-backend/pkg/logger"
	pkgredis "github.com/maisonessence/parfumerie-backend/pkg/redis"
)

// Idempotency protects side-effecting POSTs against client retries. The
// first response under a key is captured and replayed verbatim for the
// key's lifetime; reusing a key with a different body is rejected.
//
// Checkout and order cancel keep their records for a week since those
// are the retries that would double-charge or double-cancel; the rest
// get a day.

const (
	standardReplayTTL = 24 * time.Hour
	checkoutReplayTTL = 7 * 24 * time.Hour
)

type idempotencyRule struct {
	method string
	match  func(path string) bool
	ttl    time.Duration
}

var idempotencyRules = []idempotencyRule{
	{http.MethodPost, pathIs("/api/v1/auth/register"), standardReplayTTL},
	{http.MethodPost, pathIs("/api/v1/cart"), standardReplayTTL},
	{http.MethodPost, pathIs("/api/v1/checkout"), checkoutReplayTTL},
	{http.MethodPost, pathBetween("/api/v1/orders/", "/cancel"), checkoutReplayTTL},
}

func pathIs(want string) func(string) bool {
	return func(path string) bool { return path == want }
}

func pathBetween(prefix, suffix string) func(string) bool {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix) && strings.HasSuffix(path, suffix)
	}
}

type replayRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := replayTTL(r)
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := base64.StdEncoding.EncodeToString(sum[:])
			scope := strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
			storeKey := store.IdempotencyKey(scope, key)

			stored, getErr := store.Get(r.Context(), storeKey)
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			}
			if stored != "" {
				var record replayRecord
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replay(w, record)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			record := replayRecord{
				Status:      capture.statusOrOK(),
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := capture.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}

			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				if logg != nil {
					logg.Error(r.Context(), "marshal idempotency record", marshalErr)
				}
				return
			}
			if _, setErr := store.SetNX(r.Context(), storeKey, string(payload), ttl); setErr != nil {
				if logg != nil {
					logg.Error(r.Context(), "persist idempotency record", setErr)
				}
			}
		})
	}
}

// The middleware runs on the route group, where chi's RoutePattern only
// names the mounted subrouter ("/api/v1/orders") rather than the leaf.
// Rules are therefore checked against the raw URL path as well, which
// is what the /orders/{id}/cancel rule needs.
func replayTTL(r *http.Request) (time.Duration, bool) {
	candidates := []string{r.URL.Path}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			candidates = append(candidates, pattern)
		}
	}
	for _, rule := range idempotencyRules {
		if rule.method != r.Method {
			continue
		}
		for _, path := range candidates {
			if rule.match(path) {
				return rule.ttl, true
			}
		}
	}
	return 0, false
}

func replay(w http.ResponseWriter, record replayRecord) {
	if ct := record.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
