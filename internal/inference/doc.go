// Package inference talks to the external classification service.
//
// The Inferer interface is all the scan controller depends on. Client
// implements it against the Gemini generateContent REST API, asking the model
// to behave like a character-level GRU classifier and to explain its verdict
// with a per-character heatmap.
//
// Every response passes through Decode before it leaves this package. Decode
// is strict: a missing field, a value out of range or a heatmap that does not
// line up with the input is reported as an *Error of kind KindSchema, never
// passed on.
package inference
