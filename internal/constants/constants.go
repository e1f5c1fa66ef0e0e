package constants

// Context keys used to pass the authenticated user through the request chain
const (
	ContextKeyUser  = "currentUser"
	ContextKeyToken = "currentToken"
)

// Password rules
const (
	MinPasswordLength = 7
)

// Avatar upload limits
const (
	MaxAvatarBytes  = 1000000
	AvatarDimension = 250
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
