//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pickage/platform/internal/auth"
	"github.com/pickage/platform/internal/infra"
)

// MintPlayerToken issues a player-realm JWT for the given user.
func (env *TestEnv) MintPlayerToken(userID uuid.UUID) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(auth.RealmPlayer, userID, "player@test.com", "")
	if err != nil {
		env.t.Fatalf("MintPlayerToken: %v", err)
	}
	return token
}

// MintOpsToken issues an ops-realm JWT.
func (env *TestEnv) MintOpsToken() string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(auth.RealmOps, uuid.New(), "ops@test.com", "trader")
	if err != nil {
		env.t.Fatalf("MintOpsToken: %v", err)
	}
	return token
}

// SeedProfile inserts a profile row with the given balance in cents.
func (env *TestEnv) SeedProfile(userID uuid.UUID, balance int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, balance)
		VALUES ($1, 'Test Player', $2)`,
		userID, infra.Int64ToNumeric(balance))
	if err != nil {
		env.t.Fatalf("SeedProfile: %v", err)
	}
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// CleanAll truncates all mutable tables.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx,
		`TRUNCATE event_outbox, bets, transactions, profiles RESTART IDENTITY CASCADE`)
	if err != nil {
		env.t.Fatalf("CleanAll: %v", err)
	}
}

// DecodeBody decodes a JSON response body into dst and closes the body.
func DecodeBody(env *TestEnv, resp *http.Response, dst interface{}) {
	env.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		env.t.Fatalf("decode body: %v", err)
	}
}

// CountOutboxEvents returns the number of outbox events for a partition key.
func (env *TestEnv) CountOutboxEvents(partitionKey string) int {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT count(*) FROM event_outbox WHERE partition_key = $1", partitionKey).Scan(&count)
	if err != nil {
		env.t.Fatalf("CountOutboxEvents: %v", err)
	}
	return count
}

// CountRows returns the number of rows matching a user-scoped query.
func (env *TestEnv) CountRows(table string, userID uuid.UUID) int {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		"SELECT count(*) FROM "+table+" WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		env.t.Fatalf("CountRows %s: %v", table, err)
	}
	return count
}
