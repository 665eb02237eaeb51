package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // Analysis runs can take a while; no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Legal Analysis API Test\n")

	token := os.Getenv("API_TOKEN")
	if token == "" {
		color.Red("API_TOKEN env var is required")
		os.Exit(1)
	}

	documentPath := os.Getenv("DOCUMENT_PATH")
	if documentPath == "" {
		documentPath = "./testdata/sample_contract.txt"
	}

	color.Yellow("\n1. Analyze Document")
	resp, body, err := sendRequest("POST", "/analysis/v1", token, map[string]interface{}{
		"document_path": documentPath,
		"query":         "What are the biggest risks in this agreement?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	var analyzeResponse struct {
		Data struct {
			ChatSessionId string `json:"chat_session_id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &analyzeResponse)

	color.Yellow("\n2. List Sessions")
	resp, body, err = sendRequest("GET", "/analysis/v1/sessions", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	if analyzeResponse.Data.ChatSessionId != "" {
		color.Yellow("\n3. Get Session History")
		resp, body, err = sendRequest("GET", "/analysis/v1/sessions/"+analyzeResponse.Data.ChatSessionId+"/history", token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		prettyPrint(body)
	}

	color.Cyan("\n✅ Done")
}
