package constant

const (
	// TokenType is the token_type value returned by every login response.
	TokenType = "bearer"

	// CtxUserKey is the fiber.Ctx locals key the auth middleware stores the
	// resolved user under.
	CtxUserKey = "current_user"

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "Bearer"
)
