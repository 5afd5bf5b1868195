package model

type PaymentInstructions struct {
	MpesaPaybill string `json:"mpesa_paybill" validate:"max=20"`
	MpesaAccount string `json:"mpesa_account" validate:"max=40"`
	BankName     string `json:"bank_name" validate:"max=80"`
	BankAccount  string `json:"bank_account" validate:"max=40"`
	AccountName  string `json:"account_name" validate:"max=80"`
	Notes        string `json:"notes" validate:"max=1000"`
}

type SessionSettings struct {
	TimeoutMinutes int `json:"timeout_minutes" validate:"gte=0,lte=43200"`
}

// AdminSetting is a raw admin_settings row.
type AdminSetting struct {
	Key       string `db:"setting_key"`
	Value     []byte `db:"setting_value"`
	UpdatedBy uint64 `db:"updated_by"`
}
