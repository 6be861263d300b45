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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyConceptName indicates the concept Name field is empty.
	ErrEmptyConceptName = errors.New("concept name cannot be empty")

	// ErrEmptyConceptType indicates the concept Type field is empty.
	ErrEmptyConceptType = errors.New("concept type cannot be empty")

	// ErrRelevanceOutOfRange indicates a relevance score outside [0, 1].
	ErrRelevanceOutOfRange = errors.New("relevance must be between 0 and 1")

	// ErrStrengthOutOfRange indicates a relationship strength outside [0.1, 1.0].
	ErrStrengthOutOfRange = errors.New("strength must be between 0.1 and 1.0")

	// ErrMissingEndpoint indicates a relationship without source or target.
	ErrMissingEndpoint = errors.New("relationship endpoints cannot be empty")
)
