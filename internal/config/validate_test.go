package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rawDoc(t *testing.T, doc string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestSchemaErrorsValidDocument(t *testing.T) {
	require.Empty(t, SchemaErrors(rawDoc(t, sampleConfig)))
}

func TestSchemaErrorsMissingField(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	delete(doc["db"].(map[string]any), "host")

	problems := SchemaErrors(doc)
	require.Contains(t, problems, `Field "db.host": expected string, got undefined`)
}

func TestSchemaErrorsWrongType(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	doc["service"].(map[string]any)["httpPort"] = "abc"
	doc["debug"] = 1

	problems := SchemaErrors(doc)
	require.Contains(t, problems, `Field "service.httpPort": expected number, got "abc"`)
	require.Contains(t, problems, `Field "debug": expected boolean, got 1`)
}

func TestSchemaErrorsMissingSection(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	delete(doc, "paths")

	problems := SchemaErrors(doc)
	require.Contains(t, problems, `Field "paths": expected object, got undefined`)
}

func TestSchemaErrorsSectionWrongShape(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	doc["paths"] = 5

	problems := SchemaErrors(doc)
	require.Contains(t, problems, `Field "paths": expected object, got 5`)
}

func TestSchemaErrorsUndeclaredField(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	doc["extra"] = "nope"
	doc["db"].(map[string]any)["poolSize"] = 10

	problems := SchemaErrors(doc)
	require.Contains(t, problems, `Field "extra": unexpected field`)
	require.Contains(t, problems, `Field "db.poolSize": unexpected field`)
}

func TestSchemaErrorsReportsEveryViolation(t *testing.T) {
	doc := rawDoc(t, sampleConfig)
	delete(doc["service"].(map[string]any), "name")
	doc["db"].(map[string]any)["ssl"] = "yes"
	doc["unknown"] = true

	require.Len(t, SchemaErrors(doc), 3)
}
