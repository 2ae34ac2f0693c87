package domain

// ProductActivity is an aggregated activity counter for one product,
// maintained by the trending processor.
type ProductActivity struct {
	ProductID   int64
	ProductName string
	Events      int64
}
