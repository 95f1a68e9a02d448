package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/dataapi"
	"github.com/kailas-cloud/dataapi/internal/db/memory"
	"github.com/kailas-cloud/dataapi/internal/emulator"
)

const testToken = "cli-token"

// startEmulator serves an in-memory emulator and writes a client config pointing at it.
func startEmulator(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(emulator.NewHandler(memory.NewStore(), emulator.Config{
		Tokens: []string{testToken},
	}, nil))
	t.Cleanup(srv.Close)

	content := fmt.Sprintf("client:\n  endpoint: %s\n  token: %s\n  namespace: ks\n", srv.URL, testToken)
	path := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCollections_Lifecycle(t *testing.T) {
	cfg := startEmulator(t)

	out, err := execute(t, "--config", cfg, "collections", "create", "people", "--default-id", "uuidv7")
	require.NoError(t, err)
	assert.Equal(t, "Created collection \"people\" in namespace \"ks\"\n", out)

	_, err = execute(t, "--config", cfg, "collections", "create", "vectors",
		"--dimension", "3", "--metric", "euclidean", "--deny", "blob")
	require.NoError(t, err)

	out, err = execute(t, "--config", cfg, "collections", "list")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.ElementsMatch(t, []string{"people", "vectors"}, names)

	out, err = execute(t, "--config", cfg, "collections", "list", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, `"defaultId":{"type":"uuidv7"}`)
	assert.Contains(t, out, `"metric":"euclidean"`)

	out, err = execute(t, "--config", cfg, "collections", "drop", "people")
	require.NoError(t, err)
	assert.Equal(t, "Dropped collection \"people\"\n", out)

	// Dropping again still succeeds.
	_, err = execute(t, "--config", cfg, "collections", "drop", "people")
	require.NoError(t, err)

	out, err = execute(t, "--config", cfg, "collections", "list")
	require.NoError(t, err)
	assert.Equal(t, "vectors\n", out)
}

func TestCollections_NamespaceFlag(t *testing.T) {
	cfg := startEmulator(t)

	_, err := execute(t, "--config", cfg, "-n", "other", "collections", "create", "c")
	require.NoError(t, err)

	out, err := execute(t, "--config", cfg, "collections", "list")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "--config", cfg, "--namespace", "other", "collections", "list")
	require.NoError(t, err)
	assert.Equal(t, "c\n", out)
}

func TestCollectionsCreate_FlagConflicts(t *testing.T) {
	cfg := startEmulator(t)

	_, err := execute(t, "--config", cfg, "collections", "create", "c", "--allow", "a", "--deny", "b")
	require.Error(t, err)

	_, err = execute(t, "--config", cfg, "collections", "create", "c", "--service-provider", "openai")
	require.Error(t, err)

	_, err = execute(t, "--config", cfg, "collections", "create", "c", "--metric", "manhattan")
	require.ErrorIs(t, err, dataapi.ErrInvalidOptions)
}

func TestCommand_RawAndCount(t *testing.T) {
	cfg := startEmulator(t)

	_, err := execute(t, "--config", cfg, "command", `{"createCollection": {"name": "docs"}}`)
	require.NoError(t, err)

	for i := range 3 {
		doc := fmt.Sprintf(`{"insertOne": {"document": {"_id": %d, "kind": "a"}}}`, i)
		out, err := execute(t, "--config", cfg, "command", doc, "--collection", "docs")
		require.NoError(t, err)
		assert.Contains(t, out, `"insertedIds"`)
	}

	out, err := execute(t, "--config", cfg, "count", "docs")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, err = execute(t, "--config", cfg, "count", "docs", "--filter", `{"_id": 1}`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = execute(t, "--config", cfg, "count", "docs", "--upper-bound", "2")
	require.ErrorIs(t, err, dataapi.ErrTooManyDocuments)
}

func TestCommand_ErrorReplyIsPrinted(t *testing.T) {
	cfg := startEmulator(t)

	out, err := execute(t, "--config", cfg, "command", `{"frobnicate": {}}`)
	require.ErrorIs(t, err, dataapi.ErrRemote)
	assert.Contains(t, out, "UNKNOWN_COMMAND")
}

func TestCommand_InvalidJSON(t *testing.T) {
	cfg := startEmulator(t)

	_, err := execute(t, "--config", cfg, "command", `{"findCollections":`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing command")

	_, err = execute(t, "--config", cfg, "command", `{"a": {}, "b": {}}`)
	require.ErrorIs(t, err, dataapi.ErrInvalidCommand)
}

func TestCount_MissingCollection(t *testing.T) {
	cfg := startEmulator(t)

	_, err := execute(t, "--config", cfg, "count", "ghost")
	require.ErrorIs(t, err, dataapi.ErrCollectionNotFound)
}

func TestLoadClientConfig_MissingToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  endpoint: http://localhost:8181\n"), 0600))

	_, err := execute(t, "--config", path, "collections", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client.token is required")
}

func TestDecodeObject(t *testing.T) {
	doc, err := decodeObject(` {"countDocuments": {"filter": {"n": 12345678901234}}} `)
	require.NoError(t, err)
	assert.Contains(t, doc, "countDocuments")

	_, err = decodeObject("null")
	require.Error(t, err)

	_, err = decodeObject("[1]")
	require.Error(t, err)
}
