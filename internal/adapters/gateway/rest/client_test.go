package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dogreg/internal/domain/dog"
	"dogreg/internal/ports/gateway"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	return c, srv
}

// TestDoJSONHeaders tests the apikey and bearer headers.
func TestDoJSONHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("{}"))
	})
	defer srv.Close()

	if err := c.doJSON(context.Background(), http.MethodGet, "/rest/v1/dogs", "user-token", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("expected apikey header, got %q", gotAPIKey)
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}

	// Anonymous calls fall back to the API key credential.
	if err := c.doJSON(context.Background(), http.MethodGet, "/rest/v1/dogs", "", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected apikey bearer fallback, got %q", gotAuth)
	}
}

// TestDoJSONErrorMessage tests that the backend's message text is
// surfaced verbatim.
func TestDoJSONErrorMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"msg":"User already registered"}`))
	})
	defer srv.Close()

	err := c.doJSON(context.Background(), http.MethodPost, "/auth/v1/signup", "", map[string]string{}, nil)
	if err == nil || err.Error() != "User already registered" {
		t.Errorf("expected backend message verbatim, got %v", err)
	}
}

// TestGetSession tests token resolution via /auth/v1/user.
func TestGetSession(t *testing.T) {
	t.Run("live token", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/v1/user" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@x.com"})
		})
		defer srv.Close()

		sess, err := c.GetSession(context.Background(), "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess == nil || sess.UserID != "u1" || sess.Email != "a@x.com" {
			t.Errorf("unexpected session: %+v", sess)
		}
	})

	t.Run("rejected token reads as signed out", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		defer srv.Close()

		sess, err := c.GetSession(context.Background(), "stale")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess != nil {
			t.Errorf("expected nil session, got %+v", sess)
		}
	})

	t.Run("empty token skips the request", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			t.Error("request sent for empty token")
		})
		defer srv.Close()

		sess, err := c.GetSession(context.Background(), "")
		if err != nil || sess != nil {
			t.Errorf("expected nil, nil, got %v, %v", sess, err)
		}
	})
}

// TestSignUpPayload tests that identity metadata travels in the
// sign-up body.
func TestSignUpPayload(t *testing.T) {
	var body map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte("{}"))
	})
	defer srv.Close()

	err := c.SignUp(context.Background(), gateway.SignUpInput{
		Email:       "a@x.com",
		Password:    "secret123",
		Username:    "alice",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta, _ := body["data"].(map[string]any)
	if meta["username"] != "alice" || meta["display_name"] != "Alice" {
		t.Errorf("unexpected metadata: %+v", body)
	}
}

// TestSignInWithPassword tests the password grant and subscriber
// notification.
func TestSignInWithPassword(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
			"user":         map[string]string{"id": "u1", "email": "a@x.com"},
		})
	})
	defer srv.Close()

	var notified []*gateway.Session
	c.SubscribeAuthChanges(func(s *gateway.Session) { notified = append(notified, s) })

	sess, err := c.SignInWithPassword(context.Background(), "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.AccessToken != "tok-1" || sess.UserID != "u1" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if len(notified) != 1 || notified[0] == nil {
		t.Errorf("expected one auth-change notification, got %v", notified)
	}
}

// TestSignInRejected tests that a credential rejection reads as
// invalid credentials while other faults propagate unmapped.
func TestSignInRejected(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
		})
		defer srv.Close()

		_, err := c.SignInWithPassword(context.Background(), "a@x.com", "wrong")
		if !errors.Is(err, gateway.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("backend fault is not a bad password", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"message":"upstream down"}`))
		})
		defer srv.Close()

		_, err := c.SignInWithPassword(context.Background(), "a@x.com", "secret123")
		if err == nil || errors.Is(err, gateway.ErrInvalidCredentials) {
			t.Errorf("expected fault to propagate unmapped, got %v", err)
		}
		if err.Error() != "upstream down" {
			t.Errorf("expected backend message verbatim, got %v", err)
		}
	})

	t.Run("unconfigured client is not a bad password", func(t *testing.T) {
		c := NewClient(Config{})
		_, err := c.SignInWithPassword(context.Background(), "a@x.com", "secret123")
		if err == nil || errors.Is(err, gateway.ErrInvalidCredentials) {
			t.Errorf("expected configuration error to propagate, got %v", err)
		}
	})
}

// TestFindProfileByUsername tests the eq. filter and the empty-result
// mapping.
func TestFindProfileByUsername(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rest/v1/profiles" || r.URL.Query().Get("username") != "eq.alice" {
				t.Errorf("unexpected request %s", r.URL.String())
			}
			w.Write([]byte(`[{"id":"u1","username":"alice","email":"a@x.com","role":"user"}]`))
		})
		defer srv.Close()

		prof, err := c.FindProfileByUsername(context.Background(), "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prof.Email != "a@x.com" {
			t.Errorf("unexpected profile: %+v", prof)
		}
	})

	t.Run("no match", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
		defer srv.Close()

		_, err := c.FindProfileByUsername(context.Background(), "nobody")
		if !errors.Is(err, gateway.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	// A username with filter metacharacters must stay one literal
	// filter value, never grow into extra query parameters.
	t.Run("special characters stay a literal match", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("username") != "eq.bob&role=eq.admin" {
				t.Errorf("unexpected username filter %q", q.Get("username"))
			}
			if q.Has("role") {
				t.Error("username text injected a second filter parameter")
			}
			w.Write([]byte(`[]`))
		})
		defer srv.Close()

		_, err := c.FindProfileByUsername(context.Background(), "bob&role=eq.admin")
		if !errors.Is(err, gateway.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

// TestListRecords tests the filters and ordering of both record lists.
func TestListRecords(t *testing.T) {
	t.Run("approved newest first", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rest/v1/dogs_with_owner" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("status") != "eq.approved" || q.Get("order") != "created_at.desc" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`[{"id":"r1","name":"Rex","sex":"male","status":"approved","owner_name":"Alice"}]`))
		})
		defer srv.Close()

		records, err := c.ListApprovedRecords(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 || records[0].OwnerName != "Alice" {
			t.Errorf("unexpected records: %+v", records)
		}
	})

	t.Run("pending oldest first with bearer token", func(t *testing.T) {
		c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer admin-tok" {
				t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
			}
			q := r.URL.Query()
			if q.Get("status") != "eq.pending" || q.Get("order") != "created_at.asc" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`[]`))
		})
		defer srv.Close()

		records, err := c.ListPendingRecords(context.Background(), "admin-tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected empty list, got %+v", records)
		}
	})
}

// TestInsertRecord tests that inserts pin the pending status and omit
// empty optional fields.
func TestInsertRecord(t *testing.T) {
	var body map[string]any
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/dogs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	err := c.InsertRecord(context.Background(), "tok", gateway.NewRecord{Name: "Rex", Sex: dog.SexMale})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != dog.StatusPending {
		t.Errorf("expected status pinned to pending, got %v", body["status"])
	}
	if _, present := body["color"]; present {
		t.Error("empty optional field sent in payload")
	}
}

// TestUpdateRecordStatus tests the status patch.
func TestUpdateRecordStatus(t *testing.T) {
	var body map[string]string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Query().Get("id") != "eq.r1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	if err := c.UpdateRecordStatus(context.Background(), "admin-tok", "r1", dog.StatusApproved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["status"] != dog.StatusApproved {
		t.Errorf("expected status=approved, got %v", body)
	}
}

// TestNotConfigured tests that a blank client refuses to send requests.
func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if c.IsConfigured() {
		t.Error("blank client reports configured")
	}
	if err := c.doJSON(context.Background(), http.MethodGet, "/rest/v1/dogs", "", nil, nil); err == nil {
		t.Error("expected error from unconfigured client")
	}
}
