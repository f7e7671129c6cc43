// Package drafting is the client for the AI drafting gateway, the external
// service that turns a patient's symptom description into a structured draft
// response and a recommended reviewing specialty.
package drafting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/caretriage/caretriage/internal/domain/identity"
	"github.com/caretriage/caretriage/internal/platform/apperror"
)

// Draft is the structured document produced by the gateway.
type Draft struct {
	CommonCauses         string `json:"common_causes"`
	ImmediateResponse    string `json:"immediate_response"`
	FurtherTests         string `json:"further_tests"`
	SeekMedicalAttention string `json:"seek_medical_attention"`
	PreventionTips       string `json:"prevention_tips"`
	NeededClinician      string `json:"needed_clinician"`
}

// RenderText flattens the draft into the plain-text form shown to a patient
// when the clinician approves without editing.
func (d *Draft) RenderText() string {
	sections := []struct {
		title, body string
	}{
		{"Common Causes", d.CommonCauses},
		{"Immediate Response", d.ImmediateResponse},
		{"Further Medical Tests", d.FurtherTests},
		{"When to Seek Immediate Medical Attention", d.SeekMedicalAttention},
		{"Prevention Tips", d.PreventionTips},
	}
	var b strings.Builder
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.title)
		b.WriteString(": ")
		b.WriteString(s.body)
	}
	return b.String()
}

// Drafter produces a draft for a symptom description. The returned specialty
// is parsed from the draft's needed_clinician section.
type Drafter interface {
	Draft(ctx context.Context, description string) (*Draft, identity.Specialty, error)
}

// Client calls the gateway over HTTP.
type Client struct {
	http *resty.Client
}

type chatRequest struct {
	PatientDescription string `json:"patient_description"`
}

// NewClient builds a gateway client. The timeout bounds the whole draft call;
// on expiry the caller records the query as errored, there is no retry.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

func (c *Client) Draft(ctx context.Context, description string) (*Draft, identity.Specialty, error) {
	var draft Draft
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{PatientDescription: description}).
		SetResult(&draft).
		Post("/api/chat")
	if err != nil {
		return nil, "", apperror.Upstream("drafting gateway request failed", err)
	}
	if resp.IsError() {
		return nil, "", apperror.Upstream(
			fmt.Sprintf("drafting gateway returned %d", resp.StatusCode()), nil)
	}

	specialty, ok := identity.ParseSpecialty(draft.NeededClinician)
	if !ok {
		// An unrecognized tag would make the query unroutable; treat it
		// like any other gateway failure.
		return nil, "", apperror.Upstream(
			fmt.Sprintf("drafting gateway recommended unknown specialty %q", draft.NeededClinician), nil)
	}
	return &draft, specialty, nil
}
