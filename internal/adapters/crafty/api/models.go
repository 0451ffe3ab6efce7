package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Envelope wraps every Crafty API v2 response.
type Envelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorData string          `json:"error_data"`
}

// ID accepts both numeric (Crafty 3) and UUID string (Crafty 4) server IDs.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// FlexInt accepts numbers, numeric strings and booleans; Crafty reports
// "False" or false for player counts of stopped servers.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*f = FlexInt(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
	default:
		*f = 0
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginData struct {
	Token  string `json:"token"`
	UserID ID     `json:"user_id"`
}

type Server struct {
	ServerID   ID     `json:"server_id"`
	ServerName string `json:"server_name"`
	ServerIP   string `json:"server_ip"`
	ServerPort int    `json:"server_port"`
	Type       string `json:"type"`
}

type Stats struct {
	Running      bool    `json:"running"`
	Crashed      bool    `json:"crashed"`
	WaitingStart bool    `json:"waiting_start"`
	Online       FlexInt `json:"online"`
	Max          FlexInt `json:"max"`
	CPU          float64 `json:"cpu"`
	MemPercent   float64 `json:"mem_percent"`
	// Started is "YYYY-MM-DD HH:MM:SS" or "False" when stopped.
	Started string `json:"started"`
}

const (
	ActionStart   = "start_server"
	ActionStop    = "stop_server"
	ActionRestart = "restart_server"
	ActionKill    = "kill_server"
)
