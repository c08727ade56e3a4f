package docsearch

import (
	"github.com/docharbor/docsearch/internal/lifecycle"
	"github.com/docharbor/docsearch/internal/resolver"
	"github.com/docharbor/docsearch/internal/types"
)

// Public type aliases so portal consumers can import only this package.
type (
	// Filter state
	Query     = types.Query
	DateRange = types.DateRange

	// Domain entities
	Tag                = types.Tag
	Document           = types.Document
	DocumentDetail     = types.DocumentDetail
	SearchResultRecord = types.SearchResultRecord
	VersionInfo        = types.VersionInfo
	DocumentType       = types.DocumentType
	UserInfo           = types.UserInfo
	Permissions        = types.Permissions
	GrantSet           = types.GrantSet
	ViewLogEvent       = types.ViewLogEvent

	// Content
	Handle           = lifecycle.Handle
	ContentTransform = resolver.Transform
)
