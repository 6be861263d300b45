package core

import (
	"errors"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty text",
			doc:     &Document{Metadata: map[string]string{MetaTitle: "Empty"}},
			wantErr: ErrEmptyText,
		},
		{
			name: "valid document",
			doc:  &Document{Text: "some content"},
		},
		{
			name: "valid without metadata",
			doc:  &Document{Text: "bare text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConcept(t *testing.T) {
	tests := []struct {
		name    string
		concept *Concept
		wantErr error
	}{
		{
			name:    "nil concept",
			concept: nil,
			wantErr: ErrInvalidConcept,
		},
		{
			name:    "empty name",
			concept: &Concept{Type: "place"},
			wantErr: ErrEmptyConceptName,
		},
		{
			name:    "empty type",
			concept: &Concept{Name: "paris"},
			wantErr: ErrEmptyConceptType,
		},
		{
			name:    "relevance above 1",
			concept: &Concept{Name: "paris", Type: "place", Relevance: 1.2},
			wantErr: ErrRelevanceOutOfRange,
		},
		{
			name:    "valid",
			concept: &Concept{Name: "paris", Type: "place", Relevance: 0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConcept(tt.concept)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConcept() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConcept() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rel     *Relationship
		wantErr error
	}{
		{
			name:    "nil relationship",
			rel:     nil,
			wantErr: ErrInvalidRelationship,
		},
		{
			name:    "missing target",
			rel:     &Relationship{Source: "a", Strength: 0.5},
			wantErr: ErrMissingEndpoint,
		},
		{
			name:    "strength below minimum",
			rel:     &Relationship{Source: "a", Target: "b", Strength: 0.01},
			wantErr: ErrStrengthOutOfRange,
		},
		{
			name: "valid",
			rel:  &Relationship{Source: "a", Target: "b", Type: "related_to", Strength: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationship(tt.rel)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRelationship() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRelationship() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
