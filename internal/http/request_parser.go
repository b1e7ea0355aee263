package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"subledger/internal/core"
	"subledger/internal/ledger"
)

const maxBodyBytes = 1 << 16

// RequestBodyParser reads a JSON object or a form-encoded body once and
// exposes its fields uniformly.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when the content type says so, and as a
// form otherwise.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if p.isJSONContent() {
		p.jsonData = make(map[string]any)
		if len(p.body) == 0 {
			return nil
		}
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

func (p *RequestBodyParser) isJSONContent() bool {
	mt, _, err := mime.ParseMediaType(p.contentType)
	return err == nil && mt == "application/json"
}

// Get returns a sanitized string value from the parsed data.
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

// IsJSON reports whether the request carried a JSON body.
func (p *RequestBodyParser) IsJSON() bool {
	return p.isJSONContent()
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// formValues is the add-form state echoed back when the page is re-rendered.
type formValues struct {
	Service     string
	Name        string
	Price       string
	RenewalDate string
	Category    string
}

func readForm(p *RequestBodyParser) formValues {
	return formValues{
		Service:     p.Get("service"),
		Name:        p.Get("name"),
		Price:       p.Get("price"),
		RenewalDate: p.Get("renewalDate"),
		Category:    p.Get("category"),
	}
}

// draft turns the form into a ledger draft. The submitted fields are used as
// they are; a cleared price stays blank even when a service is selected.
func (f formValues) draft() ledger.Draft {
	return ledger.Draft{
		Name:        f.Name,
		Price:       f.Price,
		RenewalDate: f.RenewalDate,
		Category:    f.Category,
	}
}

// prefilled fills blank name, price and category from the selected catalog
// service, the way picking a service fills the visible fields.
func (f formValues) prefilled(catalog core.Catalog) formValues {
	if f.Service == "" || f.Service == "custom" {
		return f
	}
	svc, ok := catalog.Lookup(f.Service)
	if !ok {
		return f
	}
	if f.Name == "" {
		f.Name = svc.Name
	}
	if f.Price == "" {
		f.Price = svc.Price.Decimal().StringFixed(2)
	}
	if f.Category == "" {
		f.Category = svc.Category
	}
	return f
}

// errorMessage is the user-facing text for a rejected draft.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidPrice):
		return "Preço inválido"
	case errors.Is(err, ledger.ErrInvalidDate):
		return "Data de renovação inválida"
	default:
		return strings.TrimSpace(err.Error())
	}
}
