package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), Options{
		Token:     "gh-12abc",
		APIURL:    server.URL,
		UserAgent: "bump-github-action",
		Owner:     "owner",
		Repo:      "repo",
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestNewClient_MissingToken(t *testing.T) {
	_, err := NewClient(context.Background(), Options{Owner: "owner", Repo: "repo"})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("err = %v, want ErrMissingToken", err)
	}
	want := "No GITHUB_TOKEN env variable available. Are you sure to run this package from a Github Action?"
	if err.Error() != want {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNewClient_MissingRepo(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{Token: "t"}); err == nil {
		t.Fatal("expected error without owner/repo")
	}
}

func TestListComments_Paginates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/issues/42/comments" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer gh-12abc" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "bump-github-action" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q", got)
		}

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/owner/repo/issues/42/comments?page=2&per_page=100>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"id":1,"body":"first"},{"id":2,"body":"second"}]`)
		case "2":
			fmt.Fprint(w, `[{"id":3,"body":"third"}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	comments, err := c.ListComments(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListComments error: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("len = %d, want 3", len(comments))
	}
	if comments[2].ID != 3 || comments[2].Body != "third" {
		t.Errorf("last comment = %+v", comments[2])
	}
}

func TestCreateComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/repos/owner/repo/issues/42/comments" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["body"] != "hello" {
			t.Errorf("body = %q", payload["body"])
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":99,"body":"hello"}`)
	})

	created, err := c.CreateComment(context.Background(), 42, "hello")
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if created.ID != 99 {
		t.Errorf("ID = %d, want 99", created.ID)
	}
}

func TestUpdateComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Method = %q, want PATCH", r.Method)
		}
		if r.URL.Path != "/repos/owner/repo/issues/comments/7" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":7,"body":"updated"}`)
	})

	if err := c.UpdateComment(context.Background(), 7, "updated"); err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
}

func TestDeleteComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Method = %q, want DELETE", r.Method)
		}
		if r.URL.Path != "/repos/owner/repo/issues/comments/7" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteComment(context.Background(), 7); err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}
}

func TestForbiddenCarriesHints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
	})

	_, err := c.CreateComment(context.Background(), 42, "hello")
	if err == nil {
		t.Fatal("expected error for 403")
	}
	hints := errors.GetAllHints(err)
	if len(hints) != 2 {
		t.Fatalf("hints = %v, want 2", hints)
	}
	if hints[0] != hintPermissions && hints[1] != hintPermissions {
		t.Errorf("permissions hint missing: %v", hints)
	}
}

func TestListComments_ErrorPropagates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})

	if _, err := c.ListComments(context.Background(), 42); err == nil {
		t.Fatal("expected error")
	}
}
