package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/namistock-host/internal/domain/repository"
)

// Verificar en tiempo de compilación que WebhookNotifier implementa Notifier.
var _ repository.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier envía el resumen de cierre como POST JSON a un webhook
// (LINE Notify, Slack, etc. detrás de un puente). Usa net/http de la librería
// estándar; el caller trata el envío como fire-and-forget.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier construye el notificador.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type webhookPayload struct {
	Message string `json:"message"`
}

// Send publica el mensaje. Cualquier estado fuera de 2xx cuenta como fallo.
func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(webhookPayload{Message: message})
	if err != nil {
		return fmt.Errorf("codificar payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enviar notificación: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook respondió %d", resp.StatusCode)
	}
	return nil
}
