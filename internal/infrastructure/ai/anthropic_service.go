package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/namistock-host/internal/application/dto"
	"github.com/jhoicas/namistock-host/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa ItemExtractor.
var _ ports.ItemExtractor = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	anthropicSystemPrompt = `Eres un asistente de inventario de una tienda.
El operador describe artículos en texto libre (nombre, cantidad inicial, mínimo deseado, precio unitario).
Devuelve ÚNICAMENTE un array JSON válido (sin markdown, sin bloques de código) con esta estructura exacta:
[
  {
    "name": "<nombre del artículo>",
    "prev_stock": <entero no negativo, 0 si no se menciona>,
    "min_stock_target": <entero no negativo, 0 si no se menciona>,
    "unit_price": <número decimal, 0 si no se menciona>
  }
]

Reglas:
- Un elemento por artículo detectado, en el orden del texto.
- No inventes artículos ni valores: lo no mencionado queda en 0.
- No incluyas texto fuera del JSON. Solo el array.`
)

// AnthropicService adaptador que implementa ItemExtractor usando la API REST
// de Anthropic (Claude). Usa net/http de la librería estándar de Go; no
// requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además un context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type llmItemPayload struct {
	Name           string  `json:"name"`
	PrevStock      int     `json:"prev_stock"`
	MinStockTarget int     `json:"min_stock_target"`
	UnitPrice      float64 `json:"unit_price"`
}

// jsonArrayRe extrae el primer array JSON del texto aunque el modelo lo
// envuelva en markdown.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractItems envía el texto libre del operador a Claude y devuelve los
// borradores de artículo detectados.
func (s *AnthropicService) ExtractItems(ctx context.Context, text string) ([]dto.ExtractedItemDTO, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: AI_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    anthropicSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("AI: el modelo devolvió respuesta vacía")
	}

	rawText := anthResp.Content[0].Text

	// Parseo seguro: extraer solo el array JSON aunque el modelo añada texto.
	cleanJSON := extractJSONArray(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}

	var items []llmItemPayload
	if err := json.Unmarshal([]byte(cleanJSON), &items); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de artículos: %w (JSON extraído: %s)", err, cleanJSON)
	}

	out := make([]dto.ExtractedItemDTO, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		if it.PrevStock < 0 {
			it.PrevStock = 0
		}
		if it.MinStockTarget < 0 {
			it.MinStockTarget = 0
		}
		price := it.UnitPrice
		if price < 0 {
			price = 0
		}
		out = append(out, dto.ExtractedItemDTO{
			Name:           it.Name,
			PrevStock:      it.PrevStock,
			MinStockTarget: it.MinStockTarget,
			UnitPrice:      decimal.NewFromFloat(price).String(),
		})
	}
	return out, nil
}

// extractJSONArray extrae el primer array JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque [ … ].
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}

	if strings.HasPrefix(text, "[") {
		return text
	}

	match := jsonArrayRe.FindString(text)
	return strings.TrimSpace(match)
}
