package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func validRequest() AccessRequest {
	return AccessRequest{
		FullName:     "Jane",
		Email:        "jane@x.com",
		Organisation: "Acme",
		Role:         "CFO",
		AgreeNDA:     true,
	}
}

func TestAccessRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *AccessRequest)
		want   error
	}{
		{"valid", func(r *AccessRequest) {}, nil},
		{"honeypot", func(r *AccessRequest) { r.Website = "http://spam.com" }, ErrHoneypot},
		{"whitespace honeypot", func(r *AccessRequest) { r.Website = " " }, ErrHoneypot},
		{"honeypot beats missing fields", func(r *AccessRequest) { r.Website = "x"; r.FullName = "" }, ErrHoneypot},
		{"honeypot beats nda", func(r *AccessRequest) { r.Website = "x"; r.AgreeNDA = false }, ErrHoneypot},
		{"missing name", func(r *AccessRequest) { r.FullName = "" }, ErrMissingFields},
		{"missing org", func(r *AccessRequest) { r.Organisation = "" }, ErrMissingFields},
		{"missing role", func(r *AccessRequest) { r.Role = "" }, ErrMissingFields},
		{"bad email", func(r *AccessRequest) { r.Email = "jane" }, ErrInvalidEmail},
		{"missing fields beat bad email", func(r *AccessRequest) { r.Email = "jane"; r.Role = "" }, ErrMissingFields},
		{"nda", func(r *AccessRequest) { r.AgreeNDA = false }, ErrNDANotAccepted},
		{"bad email beats nda", func(r *AccessRequest) { r.Email = "jane"; r.AgreeNDA = false }, ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			r.Normalize()
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAccessRequest_NormalizeBlankFields(t *testing.T) {
	r := validRequest()
	r.FullName = "   "
	r.Normalize()
	if err := r.Validate(); !errors.Is(err, ErrMissingFields) {
		t.Errorf("Validate() = %v, want %v", err, ErrMissingFields)
	}
}

func TestVerifyRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  VerifyRequest
		ok   bool
	}{
		{"valid", VerifyRequest{Email: "jane@x.com", Code: "123456"}, true},
		{"trimmed", VerifyRequest{Email: " Jane@X.com ", Code: " 123456 "}, true},
		{"empty code", VerifyRequest{Email: "jane@x.com", Code: "  "}, false},
		{"empty email", VerifyRequest{Code: "123456"}, false},
		{"bad email", VerifyRequest{Email: "jane", Code: "123456"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.req
			r.Normalize()
			err := r.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidVerify) {
				t.Errorf("Validate() = %v, want %v", err, ErrInvalidVerify)
			}
		})
	}
}

func TestVerifyRequest_NormalizeKeepsEmailCase(t *testing.T) {
	r := VerifyRequest{Email: "  Jane@X.com ", Code: " 123456 "}
	r.Normalize()
	if r.Email != "Jane@X.com" || r.Code != "123456" {
		t.Errorf("Normalize() = %+v", r)
	}
}

func TestCode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body    string
		want    Code
		wantErr bool
	}{
		{`{"code":"004217"}`, "004217", false},
		{`{"code":123456}`, "123456", false},
		{`{"code":4217}`, "4217", false},
		{`{"code":null}`, "", false},
		{`{}`, "", false},
		{`{"code":true}`, "", true},
		{`{"code":{"a":1}}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var r VerifyRequest
			err := json.Unmarshal([]byte(tt.body), &r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) succeeded, want error", tt.body)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) = %v", tt.body, err)
			}
			if r.Code != tt.want {
				t.Errorf("Code = %q, want %q", r.Code, tt.want)
			}
		})
	}
}
