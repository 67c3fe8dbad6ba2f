package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequirePrincipal(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "no principal", http.StatusInternalServerError)
			return
		}
		if principal.IsAdmin {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	middleware := RequirePrincipal(nil)(next)

	t.Run("rejects requests without identity headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		recorder := httptest.NewRecorder()
		middleware.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("rejects a non-numeric user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-User-ID", "alice")
		recorder := httptest.NewRecorder()
		middleware.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("attaches the principal to the context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-User-ID", "7")
		recorder := httptest.NewRecorder()
		middleware.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})

	t.Run("recognizes the admin flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-User-Admin", "true")
		recorder := httptest.NewRecorder()
		middleware.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", recorder.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Run("passes requests through", func(t *testing.T) {
		var called bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		recorder := httptest.NewRecorder()
		RequestLogger(nil)(next).ServeHTTP(recorder, req)

		if !called {
			t.Fatal("expected the next handler to run")
		}
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})
}
