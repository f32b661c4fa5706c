// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestParseAuthMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AuthMode
		wantErr bool
	}{
		{
			name:  "empty defaults to none",
			input: "",
			want:  AuthModeNone,
		},
		{
			name:  "none",
			input: "none",
			want:  AuthModeNone,
		},
		{
			name:  "token",
			input: "token",
			want:  AuthModeToken,
		},
		{
			name:  "case insensitive",
			input: "Token",
			want:  AuthModeToken,
		},
		{
			name:  "surrounding whitespace",
			input: "  token  ",
			want:  AuthModeToken,
		},
		{
			name:    "unknown mode",
			input:   "basic",
			wantErr: true,
		},
		{
			name:    "jwt is not a mode name",
			input:   "jwt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAuthMode(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseAuthMode(%q) unexpected error = %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseAuthMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetClaims_EmptyContext(t *testing.T) {
	if claims := GetClaims(context.Background()); claims != nil {
		t.Errorf("GetClaims() = %+v, want nil for empty context", claims)
	}
}

func TestSubjectFromContext(t *testing.T) {
	claims := &Claims{
		Role: "editor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ci",
		},
	}
	ctx := context.WithValue(context.Background(), ClaimsContextKey, claims)

	keyID, role := SubjectFromContext(ctx)
	if keyID != "ci" {
		t.Errorf("SubjectFromContext() keyID = %q, want ci", keyID)
	}
	if role != "editor" {
		t.Errorf("SubjectFromContext() role = %q, want editor", role)
	}

	keyID, role = SubjectFromContext(context.Background())
	if keyID != "" || role != "" {
		t.Errorf("SubjectFromContext() = (%q, %q), want empty for anonymous", keyID, role)
	}
}
