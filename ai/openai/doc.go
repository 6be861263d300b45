// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (OpenAI, Ollama, LocalAI, vLLM). Generation requests run at
// temperature 0 with an explicit token bound; responses are returned as raw
// text with surrounding markdown fences stripped.
package openai
