// Package common contains shared constants and sentinel errors used across
// the files manager components.
package common

// TokenHeaderName is the HTTP header carrying the session token on every
// protected request.
const TokenHeaderName = "X-Token"

// SessionKeyPrefix prefixes session tokens in the credential store.
const SessionKeyPrefix = "auth_"

// RootParentID is the parent id of every top-level node of a user's tree.
const RootParentID = "0"

// PageSize is the number of nodes returned by one listing page.
const PageSize = 20

// ThumbnailWidths lists rendition widths in the order they are produced.
var ThumbnailWidths = []int{500, 250, 100}
