// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package validation

import (
	"strings"
	"testing"
)

type categoryRequest struct {
	Category string `validate:"required,eventcategory"`
}

type coordsRequest struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

type tagsRequest struct {
	Tags []string `validate:"omitempty,min=1,max=4"`
}

func TestEventCategoryValidator(t *testing.T) {
	tests := []struct {
		name     string
		category string
		wantErr  bool
	}{
		{name: "sport", category: "sport", wantErr: false},
		{name: "art", category: "art", wantErr: false},
		{name: "social", category: "social", wantErr: false},
		{name: "study", category: "study", wantErr: false},
		{name: "unknown", category: "rave", wantErr: true},
		{name: "empty", category: "", wantErr: true},
		{name: "case sensitive", category: "Sport", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&categoryRequest{Category: tt.category})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCoordinateValidators(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{name: "campus", lat: 39.9522, lng: -75.1932, wantErr: false},
		{name: "poles", lat: 90, lng: 180, wantErr: false},
		{name: "latitude too high", lat: 90.1, lng: 0, wantErr: true},
		{name: "longitude too low", lat: 0, lng: -180.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&coordsRequest{Lat: tt.lat, Lng: tt.lng})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInterestTagsBounds(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{name: "unset", tags: nil, wantErr: false},
		{name: "one tag", tags: []string{"climbing"}, wantErr: false},
		{name: "four tags", tags: []string{"a", "b", "c", "d"}, wantErr: false},
		{name: "five tags", tags: []string{"a", "b", "c", "d", "e"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tagsRequest{Tags: tt.tags})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&categoryRequest{Category: "rave"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "sport, art, social, or study") {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Category" {
		t.Errorf("expected field detail Category, got %v", apiErr.Details["field"])
	}
}

func TestMultipleErrorsCollected(t *testing.T) {
	err := ValidateStruct(&coordsRequest{Lat: 95, Lng: 200})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multi-error response")
	}
}
