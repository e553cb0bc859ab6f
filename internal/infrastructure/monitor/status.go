package monitor

import "time"

type Status struct {
	MongoDB    bool      `json:"mongodb"`
	Redis      bool      `json:"redis"`
	Outbox     bool      `json:"outbox"`
	OutboxSize int       `json:"outbox_size"`
	LastCheck  time.Time `json:"last_check"`
}
