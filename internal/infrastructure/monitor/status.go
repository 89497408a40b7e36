package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	LastCheck  time.Time `json:"last_check"`
}

func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
