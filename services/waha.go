package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WahaClient talks to the external WAHA WhatsApp HTTP gateway. It is a thin
// pass-through: no retries, no backoff. A failed call surfaces its error and
// the caller reverts the stored session state to disconnected.
type WahaClient struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

var Waha *WahaClient

func InitializeWaha(baseURL, apiKey string) {
	Waha = NewWahaClient(baseURL, apiKey)
}

func NewWahaClient(baseURL, apiKey string) *WahaClient {
	return &WahaClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WahaSessionStatus is the gateway's view of a session.
type WahaSessionStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"` // STOPPED, STARTING, SCAN_QR_CODE, WORKING, FAILED
	Me     *struct {
		ID       string `json:"id"`
		PushName string `json:"pushName"`
	} `json:"me"`
}

// WahaTextMessage is the payload for sending a plain text message.
type WahaTextMessage struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

// StartSession asks the gateway to start (or restart) a session.
func (w *WahaClient) StartSession(sessionName string) error {
	payload := map[string]string{"name": sessionName}
	return w.post("/api/sessions/start", payload, nil)
}

// StopSession asks the gateway to stop a session and log out.
func (w *WahaClient) StopSession(sessionName string) error {
	payload := map[string]interface{}{"name": sessionName, "logout": true}
	return w.post("/api/sessions/stop", payload, nil)
}

// GetSessionStatus fetches the gateway's current state for a session.
func (w *WahaClient) GetSessionStatus(sessionName string) (*WahaSessionStatus, error) {
	var status WahaSessionStatus
	if err := w.get("/api/sessions/"+sessionName, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetQRCode fetches the pairing QR code as raw image bytes.
func (w *WahaClient) GetQRCode(sessionName string) ([]byte, error) {
	req, err := http.NewRequest("GET", w.BaseURL+"/api/"+sessionName+"/auth/qr", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR request: %w", err)
	}
	w.setHeaders(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch QR code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// SendText sends a plain text message to a phone number. The number is
// normalized to the gateway's chat id format (<digits>@c.us).
func (w *WahaClient) SendText(sessionName, phone, text string) error {
	message := WahaTextMessage{
		Session: sessionName,
		ChatID:  ChatID(phone),
		Text:    text,
	}
	return w.post("/api/sendText", message, nil)
}

// ChatID converts a phone number to the gateway chat id format.
func ChatID(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	return string(digits) + "@c.us"
}

func (w *WahaClient) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", w.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	w.setHeaders(req)

	return w.do(req, out)
}

func (w *WahaClient) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", w.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	w.setHeaders(req)

	return w.do(req, out)
}

func (w *WahaClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if w.APIKey != "" {
		req.Header.Set("X-Api-Key", w.APIKey)
	}
}

func (w *WahaClient) do(req *http.Request, out interface{}) error {
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}

	return nil
}
