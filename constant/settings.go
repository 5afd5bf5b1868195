package constant

const (
	SettingPaymentInstructions = "payment_instructions"
	SettingSessionTimeout      = "session_timeout"
)
