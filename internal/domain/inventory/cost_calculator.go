package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el nuevo stock no es positivo el costo promedio pasa a ser CostoEntrada.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// UnitCost divide el costo total de la compra entre la cantidad recibida.
// La cantidad debe ser positiva (validada por el caso de uso).
func UnitCost(totalCost decimal.Decimal, quantity int64) decimal.Decimal {
	return totalCost.Div(decimal.NewFromInt(quantity))
}
