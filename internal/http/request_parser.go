package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartfinance/internal/core"
)

// maxBodyBytes bounds request bodies; records are tiny.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a JSON or form-encoded body once and exposes its
// fields as strings. JSON numbers keep their literal text so amounts never
// pass through float64.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns the sanitized value of key, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ExpenseInput maps the body onto a record input. Field names follow the
// persisted record format.
func (p *RequestBodyParser) ExpenseInput() core.ExpenseInput {
	in := core.ExpenseInput{
		Description: p.Get("description"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		Mode:        core.PaymentMode(strings.ToUpper(p.Get("type"))),
		Category:    p.Get("category"),
	}
	if n, err := strconv.Atoi(p.Get("installmentsCount")); err == nil {
		in.InstallmentCount = n
	}
	return in
}
