package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Makepad-fr/casegen/internal/model"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "As a user I want to log in", body["user_story"])
		assert.Equal(t, "- email format", body["acceptance_criteria"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"test_cases":[
			{"id":"TC-001","title":"Valid login","type":"Positive","steps":["open","submit"],"expected_result":"ok"},
			{"id":"TC-002","title":"Bad email","type":"Negative","steps":"type a bad email","expected_result":"error"}
		]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL + "/")
	got, err := c.Generate(context.Background(), GenerateRequest{
		UserStory:          "As a user I want to log in",
		AcceptanceCriteria: "- email format",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.TestCase{
		ID: "TC-001", Title: "Valid login", Type: model.Positive,
		Steps: model.Steps{"open", "submit"}, ExpectedResult: "ok",
	}, got[0])
	assert.Equal(t, model.Steps{"type a bad email"}, got[1].Steps)
}

func TestClient_GenerateEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL).Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_GenerateKeepsUnknownType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"test_cases":[{"id":"TC-001","title":"t","type":"Edge","steps":[],"expected_result":""}]}`))
	}))
	defer server.Close()

	core, logs := observer.New(zap.WarnLevel)
	got, err := NewClient(server.URL, WithLogger(zap.New(core))).
		Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Type("Edge"), got[0].Type)

	warned := logs.FilterMessage("unknown test case type").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "TC-001", warned[0].ContextMap()["id"])
}

func TestClient_GenerateStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"model overloaded"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, "generate", se.Op)
	assert.Contains(t, se.Body, "model overloaded")
}

func TestClient_GenerateBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_GenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClient_Export(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/export-to-jira", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &raw))
		w.Write([]byte(`{"results":[{"key":"KAN-7"}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	err := c.Export(context.Background(), ExportRequest{
		ProjectKey: "KAN",
		TestCases:  []model.TestCase{{ID: "TC-001", Title: "t", Type: model.Positive, Steps: model.Steps{"s"}}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `"KAN"`, string(raw["project_key"]))
	assert.JSONEq(t, `null`, string(raw["parent_key"]))
	assert.JSONEq(t, `[{"id":"TC-001","title":"t","type":"Positive","steps":["s"],"expected_result":""}]`, string(raw["test_cases"]))

	err = c.Export(context.Background(), ExportRequest{ProjectKey: "AT", ParentKey: "AT-123"})
	require.NoError(t, err)
	assert.JSONEq(t, `"AT-123"`, string(raw["parent_key"]))
	assert.JSONEq(t, `[]`, string(raw["test_cases"]))
}

func TestClient_ExportStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewClient(server.URL).Export(context.Background(), ExportRequest{ProjectKey: "NOPE"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "export: unexpected status 400", se.Error())
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"test_cases":[]}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, WithTimeout(20*time.Millisecond)).
		Generate(context.Background(), GenerateRequest{UserStory: "x"})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Zero(t, c.http.Timeout)
}
