package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-rp/staffd/pkg/contextkeys"
	"github.com/hospital-rp/staffd/pkg/roles"
	"github.com/hospital-rp/staffd/pkg/staff"
	"github.com/hospital-rp/staffd/pkg/storage/memory"
)

func TestActorMiddleware(t *testing.T) {
	store := memory.NewStore()
	member := &staff.Member{AccessCode: "code-1", Name: "Rex", Role: roles.RoleLeader}
	require.NoError(t, store.CreateMember(context.Background(), member))

	lookup := func(r *http.Request, code string) (*staff.Member, error) {
		return store.GetMemberByAccessCode(r.Context(), code)
	}

	var seen *staff.Member
	router := mux.NewRouter()
	router.Use(ActorMiddleware(lookup))
	router.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		seen = contextkeys.GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("resolves actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(ActorHeader, "code-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, member.ID, seen.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(ActorHeader, "nope")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lookup error", func(t *testing.T) {
		failRouter := mux.NewRouter()
		failRouter.Use(ActorMiddleware(func(r *http.Request, code string) (*staff.Member, error) {
			return nil, errors.New("store down")
		}))
		failRouter.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(ActorHeader, "code-1")
		rec := httptest.NewRecorder()
		failRouter.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware())
	router.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, contextkeys.GetRequestID(r.Context()))
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("honors incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", "fixed-id")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	router := mux.NewRouter()
	router.Use(RecoveryMiddleware(log))
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
