package common

// RefreshTokenCookieName is the cookie that carries the refresh token
// between the browser and the service.
const RefreshTokenCookieName = "refresh_token"

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key, lower
// cased) that carries the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in front of access tokens.
const BearerScheme = "Bearer"
