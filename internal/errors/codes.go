package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The CLI (and any other front end) maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthUnexpectedResponse = "AUTH_UNEXPECTED_RESPONSE" // server reply unusable

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // one or more bad fields
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field missing

	// ==================== Cart (CART_) ====================
	CartEmpty        = "CART_EMPTY"         // nothing to check out
	CartItemNotFound = "CART_ITEM_NOT_FOUND"

	// ==================== Orders (ORDER_) ====================
	OrderSubmissionFailed = "ORDER_SUBMISSION_FAILED" // server rejected the order
	OrderNotAuthenticated = "ORDER_NOT_AUTHENTICATED" // checkout without login

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND"

	// ==================== Network (NETWORK_) ====================
	NetworkError = "NETWORK_ERROR" // request never completed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalStateError  = "INTERNAL_STATE_ERROR" // local persisted state unusable
)
