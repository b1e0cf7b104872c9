package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmptyDocument is returned when an offer page has no parseable markup
	ErrEmptyDocument = errors.New("offer document is empty or unreadable")

	// ErrNoCards is returned when no card selector matched anything in the document
	ErrNoCards = errors.New("no offer cards found in document")

	// ErrCatalogEmpty is returned by lookups that need a published catalog
	ErrCatalogEmpty = errors.New("no offer catalog has been published")

	// ErrNegativeAmount is returned when an amount below zero is turned into Money
	ErrNegativeAmount = errors.New("money amount must not be negative")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
