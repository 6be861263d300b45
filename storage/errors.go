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

package storage

import "errors"

var (
	// ErrNotFound indicates the requested document, chunk, or entity does
	// not exist. Duplicate-detection lookups rely on this sentinel to tell
	// "no match" apart from a failing store.
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed indicates an operation was attempted after Close.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed wraps encode/decode failures of stored records.
	ErrSerializationFailed = errors.New("serialization failed")
)
