package core

// Customer is a closed set of customer segments a sale can be registered for.
type Customer string

const (
	CustomerRetail    Customer = "Retail"
	CustomerWholesale Customer = "Wholesale"
	CustomerOnTrade   Customer = "OnTrade"
	CustomerEcommerce Customer = "Ecommerce"
)

var customers = map[Customer]bool{
	CustomerRetail:    true,
	CustomerWholesale: true,
	CustomerOnTrade:   true,
	CustomerEcommerce: true,
}

func (c Customer) Valid() bool { return customers[c] }

// Branch is a closed set of branches that can originate a sale.
type Branch string

const (
	BranchDowntown  Branch = "Downtown"
	BranchNorthSide Branch = "NorthSide"
	BranchHarbor    Branch = "Harbor"
	BranchAirport   Branch = "Airport"
)

var branches = map[Branch]bool{
	BranchDowntown:  true,
	BranchNorthSide: true,
	BranchHarbor:    true,
	BranchAirport:   true,
}

func (b Branch) Valid() bool { return branches[b] }

// Product is a closed set of sellable products.
type Product string

const (
	ProductLagerCase   Product = "LagerCase"
	ProductPilsnerCase Product = "PilsnerCase"
	ProductStoutCase   Product = "StoutCase"
	ProductIPACase     Product = "IPACase"
	ProductSodaCase    Product = "SodaCase"
	ProductWaterCase   Product = "WaterCase"
)

var products = map[Product]bool{
	ProductLagerCase:   true,
	ProductPilsnerCase: true,
	ProductStoutCase:   true,
	ProductIPACase:     true,
	ProductSodaCase:    true,
	ProductWaterCase:   true,
}

func (p Product) Valid() bool { return products[p] }
