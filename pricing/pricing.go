// Package pricing derives order totals from line items. Quote is a pure
// function: same items in, same totals out, no I/O.
package pricing

import "math"

const (
	// TaxRate is the flat tax applied to every order subtotal.
	TaxRate = 0.08
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = 100.0
	// FlatShipping is charged below the free-shipping threshold.
	FlatShipping = 10.0
)

// Line is a (unit price, quantity) pair to be priced.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the priced breakdown of an order. All components are rounded
// to cents, and Total = Subtotal + Tax + Shipping holds on the rounded
// values.
type Quote struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

// LineTotal returns the cent-rounded total for a single line.
func LineTotal(l Line) float64 {
	return round2(l.UnitPrice * float64(l.Quantity))
}

// Price computes the quote for a set of lines. Shipping is free when the
// subtotal reaches the threshold, otherwise a flat charge applies.
func Price(lines []Line) Quote {
	subtotal := 0.0
	for _, l := range lines {
		subtotal += LineTotal(l)
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * TaxRate)
	shipping := FlatShipping
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal + tax + shipping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
