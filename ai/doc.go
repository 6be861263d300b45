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


// Package ai provides abstractions for the AI capabilities Loom consumes.
//
// The package defines interfaces for text generation, embeddings, and the
// optional statistical phrase tagger. It follows the dependency inversion
// principle: the extraction and ingestion packages depend on these
// abstractions, never on a concrete provider, and there is no ambient
// global — providers are constructed explicitly and injected.
//
// # Interfaces
//
//   - TextGenerator: prompt-in, text-out generation (two-pass extraction)
//   - Embedder: vector embeddings for the caller's similarity index
//   - PhraseTagger: optional statistical NLP capability; absence is a
//     supported state, not an error
//   - AIProvider: aggregates generator and embedder for initialization
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/prose: statistical tagger backed by a local NLP model
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors return interface types to enforce abstraction; mock
// constructors return concrete types so tests can inject behavior and make
// assertions.
package ai
