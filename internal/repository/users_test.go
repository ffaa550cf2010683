package repository

import (
	"strings"
	"testing"
)

func TestUpsertQueryShape(t *testing.T) {
	// The write must stay idempotent and refresh the stored username.
	for _, part := range []string{
		"INSERT INTO users",
		"ON CONFLICT (tg_id) DO UPDATE",
		"username = EXCLUDED.username",
		"RETURNING id",
	} {
		if !strings.Contains(upsertUserQuery, part) {
			t.Errorf("upsert query missing %q", part)
		}
	}
}
