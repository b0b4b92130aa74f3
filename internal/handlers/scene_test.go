package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/scene-engine/internal/adventure"
	"github.com/jwebster45206/scene-engine/internal/metrics"
	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/genai"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestMux(mock *services.MockGenAI, timeout time.Duration) *http.ServeMux {
	st := adventure.NewStoryteller(mock, adventure.Options{}, testLogger())
	mux := http.NewServeMux()
	NewSceneHandler(st, timeout, testLogger()).Register(mux)
	return mux
}

func encodeBody(t *testing.T, body interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}
	return &buf
}

func TestSceneHandler_StartScene(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		mockSetup      func(*services.MockGenAI)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful start",
			method:         http.MethodPost,
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported at /v1/scenes.",
		},
		{
			name:   "malformed model output",
			method: http.MethodPost,
			mockSetup: func(m *services.MockGenAI) {
				m.SetTextResponse("not json")
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to generate the opening scene. Please try again.",
		},
		{
			name:   "service error",
			method: http.MethodPost,
			mockSetup: func(m *services.MockGenAI) {
				m.SetTextError(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to generate the opening scene. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := services.NewMockGenAI()
			tt.mockSetup(mock)
			mux := newTestMux(mock, time.Second)

			req := httptest.NewRequest(tt.method, "/v1/scenes", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedError != "" {
				var response scene.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response.Error)
				return
			}

			var rec scene.Record
			require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
			assert.Equal(t, "You wake in a mossy clearing.", rec.SceneDescription)
			assert.Len(t, rec.Choices, 3)
		})
	}
}

func TestSceneHandler_NextScene(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockSetup      func(*services.MockGenAI)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful continuation",
			body:           scene.NextRequest{History: []string{"You wake in a cave."}, Choice: "Light a torch"},
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty history",
			body:           scene.NextRequest{Choice: "Open the door"},
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid JSON body",
			body:           "invalid json",
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body. Expected JSON with 'history' and 'choice' fields.",
		},
		{
			name:           "empty choice",
			body:           scene.NextRequest{History: []string{"A cave."}},
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request: choice cannot be empty",
		},
		{
			name: "malformed model output",
			body: scene.NextRequest{Choice: "Open the door"},
			mockSetup: func(m *services.MockGenAI) {
				m.SetTextResponse(`{"sceneDescription":"A","imagePrompt":"B","choices":[]}`)
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to generate the next scene. Please try again.",
		},
		{
			name: "timeout",
			body: scene.NextRequest{Choice: "Wait"},
			mockSetup: func(m *services.MockGenAI) {
				m.GenerateTextFunc = func(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
					<-ctx.Done()
					return "", ctx.Err()
				}
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  "Failed to generate the next scene. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := services.NewMockGenAI()
			tt.mockSetup(mock)
			mux := newTestMux(mock, 50*time.Millisecond)

			req := httptest.NewRequest(http.MethodPost, "/v1/scenes/next", encodeBody(t, tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response scene.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response.Error)
				return
			}

			var rec scene.Record
			require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
			assert.NotEmpty(t, rec.SceneDescription)

			textCalls, _ := mock.GetCalls()
			require.Len(t, textCalls, 1)
			if next, ok := tt.body.(scene.NextRequest); ok {
				assert.True(t, strings.Contains(textCalls[0].Prompt, next.Choice))
			}
		})
	}
}

func TestSceneHandler_GenerateImage(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           interface{}
		mockSetup      func(*services.MockGenAI)
		expectedStatus int
		expectedError  string
	}{
		{
			name:   "successful image",
			method: http.MethodPost,
			body:   scene.ImageRequest{Prompt: "a ruined tower"},
			mockSetup: func(m *services.MockGenAI) {
				m.SetImages([]services.Image{{MIMEType: "image/jpeg", Data: []byte("jpeg")}})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "method not allowed",
			method:         http.MethodPut,
			body:           nil,
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported at /v1/images.",
		},
		{
			name:           "empty prompt",
			method:         http.MethodPost,
			body:           scene.ImageRequest{},
			mockSetup:      func(m *services.MockGenAI) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request: prompt cannot be empty",
		},
		{
			name:   "no images returned",
			method: http.MethodPost,
			body:   scene.ImageRequest{Prompt: "a ruined tower"},
			mockSetup: func(m *services.MockGenAI) {
				m.SetImages(nil)
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "Failed to generate the scene image. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := services.NewMockGenAI()
			tt.mockSetup(mock)
			mux := newTestMux(mock, time.Second)

			req := httptest.NewRequest(tt.method, "/v1/images", encodeBody(t, tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response scene.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response.Error)
				return
			}

			var response scene.ImageResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString([]byte("jpeg")), response.DataURI)
		})
	}
}

func TestSceneHandler_LogsGenerationError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	mock := services.NewMockGenAI()
	mock.SetTextError(errors.New("upstream down"))

	st := adventure.NewStoryteller(mock, adventure.Options{}, log)
	mux := http.NewServeMux()
	NewSceneHandler(st, time.Second, log).Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/scenes", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, buf.String(), `level=ERROR msg="Error generating initial scene"`)
	assert.Contains(t, buf.String(), `error="failed to generate scene: upstream down"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusBadGateway, statusFor(adventure.ErrNoImage))
	assert.Equal(t, http.StatusBadGateway, statusFor(errors.New("other")))
}

func TestSceneHandler_RecordsGenerations(t *testing.T) {
	mock := services.NewMockGenAI()
	m := metrics.New()
	st := adventure.NewStoryteller(mock, adventure.Options{}, testLogger())
	mux := http.NewServeMux()
	NewSceneHandler(st, time.Second, testLogger()).WithMetrics(m).Register(mux)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/scenes", nil))

	mock.SetTextResponse("not json")
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/scenes/next",
		encodeBody(t, scene.NextRequest{Choice: "Look around"})))

	// Rejected before generation, so not counted.
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/images",
		encodeBody(t, scene.ImageRequest{})))

	expected := `
# HELP scene_engine_generations_total Total number of generation calls by operation and outcome.
# TYPE scene_engine_generations_total counter
scene_engine_generations_total{operation="next",outcome="error"} 1
scene_engine_generations_total{operation="start",outcome="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "scene_engine_generations_total"))
}
