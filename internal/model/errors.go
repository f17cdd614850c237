package model

import "errors"

// Sentinel errors for model construction and lookups.
var (
	// ErrTypeNotFound indicates a TypeID or name does not resolve to a type.
	ErrTypeNotFound = errors.New("model: type not found")

	// ErrNotDefinition indicates a type that must be a definition is not one.
	ErrNotDefinition = errors.New("model: not a type definition")

	// ErrEntityNotFound indicates an EntityID does not resolve to an entity.
	ErrEntityNotFound = errors.New("model: entity not found")

	// ErrDuplicateHandle indicates two records share module and handle.
	ErrDuplicateHandle = errors.New("model: duplicate handle")

	// ErrInvalidRecord indicates a record misses required fields.
	ErrInvalidRecord = errors.New("model: invalid record")
)
