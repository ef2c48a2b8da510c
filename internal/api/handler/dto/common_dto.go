package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NumericString accepts a JSON number or a JSON string such as "200,000". The raw
// text is kept so the ledger applies its own parsing rules.
type NumericString string

func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or numeric string, got %s", data)
	}
	*n = NumericString(num.String())
	return nil
}

func (n NumericString) String() string { return string(n) }

func (n NumericString) IsZero() bool { return strings.TrimSpace(string(n)) == "" }

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
