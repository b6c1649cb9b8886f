package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// TestOpen_ReturnsDBForAnyURL はsql.Openが接続を試行しないため、
// 不正なURLでもDBオブジェクトが返ることを検証する。
func TestOpen_ReturnsDBForAnyURL(t *testing.T) {
	db, err := Open("postgres://invalid")
	if err != nil {
		t.Fatalf("Open returned unexpected error: %v", err)
	}
	if db == nil {
		t.Fatal("expected non-nil db")
	}
	defer db.Close()
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert user: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(fmt.Errorf("insert space: %w", &pq.Error{Code: "23503"})) {
		t.Error("expected wrapped 23503 to be a foreign key violation")
	}
	if IsForeignKeyViolation(&pq.Error{Code: "23505"}) {
		t.Error("unique violation must not be reported as a foreign key violation")
	}
	if IsForeignKeyViolation(nil) {
		t.Error("nil must not be a foreign key violation")
	}
}
