package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cofrinho/internal/aggregate"
	"cofrinho/internal/core"
)

// maxBodyBytes bounds every request body the server reads.
const maxBodyBytes = 64 << 10

// valueGetter is satisfied by url.Values and RequestBodyParser.
type valueGetter interface {
	Get(key string) string
}

// ParseViewState reads the dashboard state carried in every URL and form:
// month (0-11, wrapped when out of range, current month when missing or
// invalid) and the two salary texts, kept verbatim.
func ParseViewState(v valueGetter, now time.Time) aggregate.State {
	st := aggregate.State{
		Month: core.MonthIndex(now),
		Salaries: aggregate.Salaries{
			A: sanitizeInput(v.Get("salary_a")),
			B: sanitizeInput(v.Get("salary_b")),
		},
	}
	if m, err := strconv.Atoi(strings.TrimSpace(v.Get("month"))); err == nil {
		st.Month = core.WrapMonth(m)
	}
	return st
}

// stateQuery encodes st so links and redirects keep the view.
func stateQuery(st aggregate.State) url.Values {
	q := url.Values{}
	q.Set("month", strconv.Itoa(core.WrapMonth(st.Month)))
	if st.Salaries.A != "" {
		q.Set("salary_a", st.Salaries.A)
	}
	if st.Salaries.B != "" {
		q.Set("salary_b", st.Salaries.B)
	}
	return q
}

// dashboardURL is the dashboard address for st.
func dashboardURL(st aggregate.State) string {
	return "/?" + stateQuery(st).Encode()
}

// ParseEntryForm collects the entry fields as typed.
func ParseEntryForm(v valueGetter) core.EntryInput {
	return core.EntryInput{
		Description: sanitizeInput(v.Get("description")),
		Amount:      sanitizeInput(v.Get("amount")),
		Kind:        core.Kind(sanitizeInput(v.Get("kind"))),
		Category:    core.Category(sanitizeInput(v.Get("category"))),
		Owner:       core.Owner(sanitizeInput(v.Get("owner"))),
	}
}

// RequestBodyParser reads a form-encoded or JSON body once and serves
// values from whichever it was.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errors.New("request body too large")
	}
	return p
}

// Parse decodes the body. Bodies starting with '{' are JSON, anything else
// is treated as form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}
	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p.err
	}
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns the trimmed value for key, or "".
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

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
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
