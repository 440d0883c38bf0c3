package models

// ProductRecord is one product block read from the knowledge tab.
// Numeric-looking fields are display text, already scaled.
type ProductRecord struct {
	// Name is the caption found above the block.
	Name string `json:"name"`
	// ImportPrice is the unit import price, scaled from thousands.
	ImportPrice string `json:"importPrice"`
	// AvgOrderValue is the average order value.
	AvgOrderValue string `json:"avgOrderValue"`
	// AvgQuantity is the average quantity per order.
	AvgQuantity string `json:"avgQuantity"`
	// AdsCost is the ads cost per purchase, scaled from thousands.
	AdsCost string `json:"adsCost"`
	// BreakEven is the real break-even value.
	BreakEven string `json:"breakEven"`
	// ReturnRate is the return percentage.
	ReturnRate string `json:"returnRate"`
}
