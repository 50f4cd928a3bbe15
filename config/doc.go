// Package config loads the YAML settings an embedding application uses
// to wire readers, buffers and pipeline stages.
//
// A minimal document:
//
//	mode: strict
//	buffer:
//	  capacity: 1024
//	  policy: drop_oldest
//	throttle:
//	  rate: 100
//	logging:
//	  level: info
//	  format: json
//
// Validate fills defaults for omitted fields; ReaderOptions and
// BufferOptions translate the settings into the option slices of the
// respective packages.
package config
