package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/llm"
)

var _ llm.FieldExtractor = (*Client)(nil)

// ExtractFields implements llm.FieldExtractor using text-only chat/completions
// in JSON mode.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (entity.ExtractedData, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.Text),
		"input_method", req.InputMethod,
	)

	schema := llm.BuildExtractionJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(req)},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
			{"role": "system", "content": "JSON Schema:\n" + llm.MustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedData{}, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return entity.ExtractedData{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices", "req_id", rid, "raw", string(raw))
		return entity.ExtractedData{}, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(llm.StripCodeFence(cc.Choices[0].Message.Content))

	// Validate strictly first.
	if err := llm.ValidateExtractionJSON(content); err != nil {
		if !c.cfg.LenientOptional {
			c.log.Error("llm.extract.schema_validation_failed", "req_id", rid, "error", err)
			return entity.ExtractedData{}, content, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, dropped, sErr := llm.NormalizeAndSanitizeJSON(content, c.log)
		if sErr != nil {
			c.log.Error("llm.extract.sanitize_failed", "req_id", rid, "error", sErr)
			return entity.ExtractedData{}, content, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateExtractionJSON(cleaned); vErr != nil {
			c.log.Error("llm.extract.schema_validation_failed", "req_id", rid, "error", vErr)
			return entity.ExtractedData{}, cleaned, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.extract.lenient_sanitize_applied", "req_id", rid, "dropped", dropped)
		content = cleaned
	}

	var out entity.ExtractedData
	if err := json.Unmarshal(content, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return entity.ExtractedData{}, content, fmt.Errorf("unmarshal fields: %w", err)
	}
	out.InputMethod = req.InputMethod
	out = out.Normalize()

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"diagnoses", len(out.Diagnoses),
		"medications", len(out.Medications),
		"tests", len(out.TestResults),
		"quality", out.ExtractionQuality,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}
