package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/service"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	argv := append([]string{"invoicectl", "--driver", "sqlite", "--sqlite-path", dbPath}, args...)
	err := newApp(&out).RunContext(context.Background(), argv)
	return strings.TrimSpace(out.String()), err
}

func TestInvoicectl(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ctl.db")

	out, err := run(t, dbPath, "user", "create", "--email", "owner@example.com", "--password", "correct horse", "--name", "Owner")
	if err != nil {
		t.Fatalf("user create failed: %v", err)
	}
	if !strings.Contains(out, "owner@example.com") {
		t.Errorf("user create output = %q", out)
	}

	if _, err := run(t, dbPath, "user", "create", "--email", "owner@example.com", "--password", "correct horse"); err == nil {
		t.Error("expected error creating a duplicate user")
	}

	token, err := run(t, dbPath, "token", "--email", "owner@example.com", "--password", "correct horse", "--jwt-secret", "s3cret")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	userID, err := service.NewAuthService(nil, "s3cret", 0).ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if userID == uuid.Nil {
		t.Error("token has no subject")
	}

	if _, err := run(t, dbPath, "token", "--email", "owner@example.com", "--password", "wrong", "--jwt-secret", "s3cret"); err == nil {
		t.Error("expected error for wrong password")
	}

	next, err := run(t, dbPath, "next-id", "--email", "owner@example.com", "--type", "quote")
	if err != nil {
		t.Fatalf("next-id failed: %v", err)
	}
	if next != "Q00001" {
		t.Errorf("next-id = %q, want Q00001", next)
	}

	if _, err := run(t, dbPath, "next-id", "--email", "owner@example.com", "--type", "client"); err == nil {
		t.Error("expected error for unnumbered type")
	}
}
