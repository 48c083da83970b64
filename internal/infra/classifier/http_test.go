package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyUsesRemoteResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, CandidateLabels, req.CandidateLabels)

		json.NewEncoder(w).Encode(classifyResponse{
			Labels: []string{"code_snippet", "api_documentation"},
			Scores: []float64{0.82, 0.11},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	label, confidence, err := c.Classify(context.Background(), "func main() { fmt.Println() }")

	require.NoError(t, err)
	assert.Equal(t, "code_snippet", label)
	assert.Equal(t, 0.82, confidence)
}

func TestClassifyRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(classifyResponse{
			Labels: []string{"network_diagram"},
			Scores: []float64{0.7},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	label, _, err := c.Classify(context.Background(), "router switch topology")

	require.NoError(t, err)
	assert.Equal(t, "network_diagram", label)
	assert.Equal(t, 3, attempts)
}

func TestClassifyFallsBackToHeuristic(t *testing.T) {
	// No server behind this URL.
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	label, _, err := c.Classify(ctx, "the firewall inspects every packet on the subnet")
	require.NoError(t, err)
	assert.Equal(t, "networking", label)
}

func TestClassifyEmptyURLUsesHeuristic(t *testing.T) {
	c := NewClient("", time.Second, zap.NewNop())

	label, confidence, err := c.Classify(context.Background(), "training a neural model on the dataset")
	require.NoError(t, err)
	assert.Equal(t, "machine_learning", label)
	assert.Greater(t, confidence, 0.0)
}
