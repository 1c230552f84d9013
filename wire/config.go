package wire

// Config controls optional decode behaviors. The zero value is the proto3
// baseline; callers pass a Config through rather than mutating global state.
type Config struct {
	// RejectUnknownFields: when true, decoding a field number absent from
	// the schema is an error. When false (default), unknown fields are
	// skipped, matching proto3 semantics.
	RejectUnknownFields bool

	// StrictWireType: when true, a field whose wire type does not match its
	// schema type is an error. When false (default), mismatched fields are
	// treated as unknown and skipped.
	StrictWireType bool

	// FirstWins: when true, repeated occurrences of a singular field keep
	// the first value instead of the last. The default follows canonical
	// proto3 last-wins merging; first-wins is useful when replaying
	// payloads to diagnose which writer produced a value.
	FirstWins bool
}
