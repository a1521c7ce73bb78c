package clients

import (
	"net/http"
	"time"
)

// HTTP is the shared client for every external provider call.
// Per-call deadlines come from the caller's context; the client
// timeout is only a hard upper bound.
type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP { return &HTTP{c: &http.Client{Timeout: 5 * time.Minute}} }
