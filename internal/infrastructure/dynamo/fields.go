package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail        = "email"
	fieldSecretCode   = "secret_code"
	fieldCreatedAt    = "created_at"
	fieldConfirmation = "confirmation"
	fieldConfirmedAt  = "confirmed_at"

	indexEmail = "email-index"
)
