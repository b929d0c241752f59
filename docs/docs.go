// Package docs registra la especificación OpenAPI de la API para swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación expuesta en /docs.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Insumos API",
	Description:      "Control de insumos de la clínica: lotes, entradas, salidas y costo promedio ponderado.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// JSON devuelve la especificación ya registrada.
func JSON() []byte {
	return []byte(SwaggerInfo.ReadDoc())
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
