// Package rut normalizes and validates Chilean RUT identifiers.
package rut

import (
	"strconv"
	"strings"
)

// Normalizar strips dots and spaces, upper-cases the check digit and makes
// sure a dash separates body and check digit: "12.345.678-k" -> "12345678-K".
// The result is not validated.
func Normalizar(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(".", "", " ", "", "-", "").Replace(s)
	if len(s) < 2 {
		return s
	}
	return s[:len(s)-1] + "-" + s[len(s)-1:]
}

// Valido reports whether s is a well-formed RUT with a correct mod-11 check
// digit. Formatting (dots, dash, case) is ignored.
func Valido(s string) bool {
	n := Normalizar(s)
	cuerpo, dv, ok := strings.Cut(n, "-")
	if !ok || len(cuerpo) < 1 || len(cuerpo) > 8 || len(dv) != 1 {
		return false
	}
	num, err := strconv.Atoi(cuerpo)
	if err != nil || num <= 0 {
		return false
	}
	return DigitoVerificador(num) == dv
}

// DigitoVerificador computes the check digit ("0".."9" or "K") of a RUT body.
func DigitoVerificador(cuerpo int) string {
	suma, factor := 0, 2
	for cuerpo > 0 {
		suma += (cuerpo % 10) * factor
		cuerpo /= 10
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	switch r := 11 - suma%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(r)
	}
}
