package service

import "time"

const (
	formatoFecha     = time.DateOnly
	formatoFechaHora = "2006-01-02T15:04:05"
)

// parseFecha parses a YYYY-MM-DD date in the server's local zone, the zone
// the municipal databases store their dates in.
func parseFecha(s string) (time.Time, error) {
	return time.ParseInLocation(formatoFecha, s, time.Local)
}
