// Package model defines the provider agnostic abstraction for the language
// model a remittance agent package declares in its manifest.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Let the manifest's model block (provider + name) pick the concrete
//     adapter without the rest of the module importing vendor SDKs
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface in their own
// subpackages so higher layers stay decoupled from vendor SDKs.
package model
