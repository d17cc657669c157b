package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/vitalos/website/internal/utils"
)

var (
	ErrHoneypot       = errors.New("bad request")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrNDANotAccepted = errors.New("you must accept the confidentiality statement")
	ErrInvalidVerify  = errors.New("invalid request")
)

// AccessRequest is the investor access form. It lives for one HTTP request only.
type AccessRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Organisation string `json:"org"`
	Role         string `json:"role"`
	AgreeNDA     bool   `json:"agreeNda"`
	Consent      bool   `json:"consent"`
	// Website is the honeypot field. Humans never see it.
	Website string `json:"website"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  Code   `json:"code"`
}

// Code is a submitted access code. It decodes from a JSON string or a JSON
// number; a number keeps its literal digits, so 4217 stays "4217".
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

// AccessRequestMeta is what staff are told about a requester.
type AccessRequestMeta struct {
	Request     AccessRequest
	IP          string
	UserAgent   string
	RequestedAt time.Time
}

// Normalize trims the text fields. The email keeps its case: codes are derived
// over the address exactly as submitted, so Jane@X.com and jane@x.com differ.
func (r *AccessRequest) Normalize() {
	r.FullName = utils.NormalizeString(r.FullName)
	r.Email = utils.NormalizeString(r.Email)
	r.Organisation = utils.NormalizeString(r.Organisation)
	r.Role = utils.NormalizeString(r.Role)
}

// Validate applies the checks in order; the honeypot wins over everything else.
func (r *AccessRequest) Validate() error {
	if r.Website != "" {
		return ErrHoneypot
	}
	if r.FullName == "" || r.Email == "" || r.Organisation == "" || r.Role == "" {
		return ErrMissingFields
	}
	if !utils.IsValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if !r.AgreeNDA {
		return ErrNDANotAccepted
	}
	return nil
}

func (r *VerifyRequest) Normalize() {
	r.Email = utils.NormalizeString(r.Email)
	r.Code = Code(strings.TrimSpace(string(r.Code)))
}

func (r *VerifyRequest) Validate() error {
	if r.Email == "" || !utils.IsValidEmail(r.Email) || r.Code == "" {
		return ErrInvalidVerify
	}
	return nil
}
