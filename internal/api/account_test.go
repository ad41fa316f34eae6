package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymtrack/internal/models"
)

func TestLoginNormalizesEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("email"); got != "user@example.com" {
			t.Errorf("email = %q, want trimmed and lowercased", got)
		}
		w.Write([]byte(`{"token": "tok-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	token, err := c.Login(context.Background(), "  User@Example.COM  ", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q", token)
	}
}

func TestLoginValidatesLocally(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")

	var ve *ValidationError
	if _, err := c.Login(context.Background(), "", "secret"); !errors.As(err, &ve) {
		t.Errorf("Login(no email) error = %v, want *ValidationError", err)
	}
	if _, err := c.Login(context.Background(), "user@example.com", ""); !errors.As(err, &ve) {
		t.Errorf("Login(no password) error = %v, want *ValidationError", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")

	var ve *ValidationError
	if _, err := c.Register(context.Background(), "user@example.com", "abc"); !errors.As(err, &ve) {
		t.Errorf("Register() error = %v, want *ValidationError", err)
	}
}

func TestFetchProfileTolerantKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"height": 180, "weight": 75.5, "biotype": "ectomorph"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	p, err := c.FetchProfile(context.Background())
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if p.HeightCm != 180 || p.WeightKg != 75.5 || p.Biotype != "ectomorph" {
		t.Errorf("profile = %+v", p)
	}
}

func TestFetchProfileEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	p, err := c.FetchProfile(context.Background())
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if p.HeightCm != 0 || p.WeightKg != 0 {
		t.Errorf("profile = %+v, want zero", p)
	}
}

func TestSaveProfileValidatesLocally(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")

	var ve *ValidationError
	err := c.SaveProfile(context.Background(), models.Profile{WeightKg: 75})
	if !errors.As(err, &ve) {
		t.Errorf("SaveProfile(no height) error = %v, want *ValidationError", err)
	}
	err = c.SaveProfile(context.Background(), models.Profile{HeightCm: 180, WeightKg: -1})
	if !errors.As(err, &ve) {
		t.Errorf("SaveProfile(bad weight) error = %v, want *ValidationError", err)
	}
}
