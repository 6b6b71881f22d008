package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhancePrompt(t *testing.T) {
	got := EnhancePrompt("A fox in a forest")

	assert.Contains(t, got, "A fox in a forest")
	assert.Contains(t, got, "Children's picture book illustration")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	imageBytes := []byte("fake-png-bytes")
	var gotRequest map[string]any

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		fmt.Fprintf(w, `{"created": 1, "data": [{"url": %q}]}`, server.URL+"/image.png")
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(imageBytes)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(Config{
		APIKey: "sk-test",
		APIURL: server.URL,
	})
	require.NoError(t, err)

	data, err := client.Generate(context.Background(), "A fox in a forest")
	require.NoError(t, err)
	assert.Equal(t, imageBytes, data)

	assert.Equal(t, "dall-e-3", gotRequest["model"])
	assert.Equal(t, "1024x1024", gotRequest["size"])
	assert.Equal(t, "standard", gotRequest["quality"])
	assert.Equal(t, "url", gotRequest["response_format"])
	assert.Equal(t, float64(1), gotRequest["n"])
	assert.Contains(t, gotRequest["prompt"], "A fox in a forest")
	assert.Contains(t, gotRequest["prompt"], "family-friendly atmosphere")
}

func TestClient_Generate_EmptyData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"created": 1, "data": []}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(Config{APIKey: "sk-test", APIURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "A fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestClient_Generate_DownloadFailure(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"created": 1, "data": [{"url": %q}]}`, server.URL+"/gone.png")
	})
	mux.HandleFunc("/gone.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(Config{APIKey: "sk-test", APIURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "A fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
