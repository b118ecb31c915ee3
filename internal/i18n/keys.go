package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyInvalidCredentials indicates an unknown email or a wrong password.
	ErrKeyInvalidCredentials = "error.invalid_credentials"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyForbidden indicates insufficient permissions.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyServiceUnavailable indicates a backing store is down or not configured.
	ErrKeyServiceUnavailable = "error.service_unavailable"
	// ErrKeyUserExists indicates the email is already registered.
	ErrKeyUserExists = "error.user_exists"
	// ErrKeyPlanNotFound indicates a saved plan does not exist for the caller.
	ErrKeyPlanNotFound = "error.plan_not_found"
	// ErrKeyPlanNameRequired indicates a saved plan without a name.
	ErrKeyPlanNameRequired = "error.validation.plan_name"
	// ErrKeyUnknownFood indicates a price for a food outside the catalog.
	ErrKeyUnknownFood = "error.validation.unknown_food"
	// ErrKeyInvalidPrice indicates a negative or non-finite price.
	ErrKeyInvalidPrice = "error.validation.price"
	// ErrKeyInvalidBudget indicates a negative or non-finite weekly budget.
	ErrKeyInvalidBudget = "error.validation.budget"
	// ErrKeyInvalidFamily indicates an invalid family composition.
	ErrKeyInvalidFamily = "error.validation.family_members"
	// ErrKeyInvalidProfile indicates profile values out of range.
	ErrKeyInvalidProfile = "error.validation.profile"
	// ErrKeyInvalidRoles indicates an unknown role or a role set without "user".
	ErrKeyInvalidRoles = "error.validation.roles"
	// ErrKeySelfUpdate indicates an admin tried to demote or deactivate themselves.
	ErrKeySelfUpdate = "error.self_update"
)
