package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// NameKey normaliza un nombre para comparaciones sin distinguir mayúsculas
// ("Luva Nitrílica" y "LUVA NITRÍLICA" producen la misma clave).
func NameKey(name string) string {
	return folder.String(strings.Join(strings.Fields(name), " "))
}
