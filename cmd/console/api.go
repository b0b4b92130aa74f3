package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/scene-engine/pkg/scene"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func startScene(client *http.Client, baseURL string) (*scene.Record, error) {
	var rec scene.Record
	if err := postJSON(client, baseURL+"/v1/scenes", nil, &rec); err != nil {
		return nil, fmt.Errorf("failed to start adventure: %w", err)
	}
	return &rec, nil
}

func nextScene(client *http.Client, baseURL string, history []string, choice string) (*scene.Record, error) {
	req := scene.NextRequest{
		History: history,
		Choice:  choice,
	}
	var rec scene.Record
	if err := postJSON(client, baseURL+"/v1/scenes/next", req, &rec); err != nil {
		return nil, fmt.Errorf("failed to continue adventure: %w", err)
	}
	return &rec, nil
}

func generateImage(client *http.Client, baseURL string, prompt string) (string, error) {
	req := scene.ImageRequest{Prompt: prompt}
	var resp scene.ImageResponse
	if err := postJSON(client, baseURL+"/v1/images", req, &resp); err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	return resp.DataURI, nil
}

// postJSON sends body (if any) and decodes a 200 response into out.
func postJSON(client *http.Client, url string, body interface{}, out interface{}) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	resp, err := client.Post(url, "application/json", reader)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp scene.ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
