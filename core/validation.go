// Copyright 2025 Calyptra Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//
// NOT validated (populated during ingestion):
//   - ContentHash / MetadataHash (computed by the fingerprint engine)
//   - ID (0 is valid until fingerprinted)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	return nil
}

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Type must not be empty
//   - Relevance must be within [0, 1]
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyConceptName)
	}

	if concept.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyConceptType)
	}

	if concept.Relevance < 0 || concept.Relevance > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrRelevanceOutOfRange)
	}

	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - Source and Target must not be empty
//   - Strength must be within [MinStrength, MaxStrength]
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.Source == "" || rel.Target == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrMissingEndpoint)
	}

	if rel.Strength < MinStrength || rel.Strength > MaxStrength {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrStrengthOutOfRange)
	}

	return nil
}
