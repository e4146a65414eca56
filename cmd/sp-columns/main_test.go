package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = `
types:
  Info:
    fields:
      - name: governor
      - {name: age, type: int, required: false}
  State:
    fields:
      - {name: state, description: Testing}
      - {name: info, type: Info}
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_PrintsPayloads(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-schema", writeCatalog(t, catalog), "-type", "State"}, &stdout, &stderr)
	require.NoError(t, err)

	var payloads []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payloads))
	require.Len(t, payloads, 3)
	assert.Equal(t, "state", payloads[0]["Title"])
	assert.Equal(t, "Testing", payloads[0]["Description"])
	assert.Equal(t, "info.governor", payloads[1]["Title"])
	assert.Equal(t, "info.age", payloads[2]["Title"])
	assert.Equal(t, false, payloads[2]["Required"])
	assert.Equal(t, float64(9), payloads[2]["FieldTypeKind"])
}

func TestRun_TypeRequiredForMultiTypeCatalog(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-schema", writeCatalog(t, catalog)}, &stdout, &stderr)
	assert.ErrorContains(t, err, "-type is required")
}

func TestRun_SchemaRequired(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr)
	assert.ErrorContains(t, err, "-schema is required")
}

func TestRun_ProvisionNeedsCredentials(t *testing.T) {
	for _, key := range []string{"SHAREPOINT_CLIENT_ID", "SHAREPOINT_TENANT_ID", "SHAREPOINT_SECRET", "SHAREPOINT_DOMAIN", "SHAREPOINT_SITE"} {
		t.Setenv(key, "")
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-schema", writeCatalog(t, catalog), "-type", "State", "-list", "Tasks"}, &stdout, &stderr)
	assert.ErrorContains(t, err, "clientId is required")
	assert.Empty(t, stdout.String())
}
