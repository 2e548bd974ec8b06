//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "demo-api"
	ConsumerName = "user-portal"

	StateUsersBaseline = "users baseline"
	StateUserExists    = "user with id 501 exists"
	StateUserMissing   = "no user with id 404"
)

const (
	ExistingUserID int64 = 501
	MissingUserID  int64 = 404

	UserUsername = "pact-user"
	UserEmail    = "pact.user@example.com"
	UserPassword = "pact-pass"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file written by the user portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleUserPayload is the request body the consumer sends on save.
func ExampleUserPayload() map[string]any {
	return map[string]any{
		"id":       ExistingUserID,
		"username": UserUsername,
		"email":    UserEmail,
		"password": UserPassword,
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
