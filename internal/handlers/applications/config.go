package applications

import "time"

type Config struct {
	RequestTimeout time.Duration
}
