package schemas

// WorkOrder is one row harvested from the sign-off console's result table.
// ModifiedAt is kept as the literal cell text; ranking parses it lazily so an
// unparsable timestamp never breaks the row, it just sorts last.
type WorkOrder struct {
	ID         string `json:"work_order_id"`
	ModifiedAt string `json:"modified_at"`
	RowIndex   int    `json:"row_index"`
}

// SignatureReport is the outcome of a sign-off / work-order lookup.
// WorkOrderID is the id of the most recently modified order when the table
// yielded multiple rows.
type SignatureReport struct {
	PID         string      `json:"pid"`
	SignName    string      `json:"sign_name"`
	WorkOrderID string      `json:"work_order_id"`
	Orders      []WorkOrder `json:"orders,omitempty"`
}

// SuccessRateRow is one data row from the success-rate dashboard table.
// All figures are literal cell strings; percentage fields carry no trailing
// "%" so callers decide how to interpret them.
type SuccessRateRow struct {
	PID                 string `json:"pid"`
	SignName            string `json:"sign_name"`
	SmsType             string `json:"sms_type"`
	SubmitCount         string `json:"submit_count"`
	ReceiptCount        string `json:"receipt_count"`
	ReceiptSuccessCount string `json:"receipt_success_count"`
	ReceiptRate         string `json:"receipt_rate"`
	ReceiptSuccessRate  string `json:"receipt_success_rate"`
	ReceiptRate10s      string `json:"receipt_rate_10s"`
	ReceiptRate30s      string `json:"receipt_rate_30s"`
	ReceiptRate60s      string `json:"receipt_rate_60s"`
}

// SuccessRateReport is the outcome of a success-rate dashboard query.
type SuccessRateReport struct {
	PID         string           `json:"pid"`
	TimeRange   string           `json:"time_range"`
	SuccessRate string           `json:"success_rate"`
	Rows        []SuccessRateRow `json:"rows,omitempty"`
}

// QualificationReport is the outcome of cross-referencing a work order
// against the qualification console. GroupID may be empty; not every order
// carries a qualification group.
type QualificationReport struct {
	WorkOrderID     string `json:"work_order_id"`
	QualificationID string `json:"qualification_id"`
	GroupID         string `json:"qualification_group_id,omitempty"`
}
