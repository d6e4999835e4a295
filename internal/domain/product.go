package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory represents the category of a product
type ProductCategory string

const (
	ProductCategoryFeed      ProductCategory = "FEED"
	ProductCategoryProduce   ProductCategory = "PRODUCE"
	ProductCategoryLivestock ProductCategory = "LIVESTOCK"
	ProductCategorySupply    ProductCategory = "SUPPLY"
	ProductCategoryOther     ProductCategory = "OTHER"
)

// Audited price field names. The set is static: every price change on a
// product is recorded against exactly these four fields.
const (
	FieldPriceDealerCash   = "price_dealer_cash"
	FieldPriceDealerCredit = "price_dealer_credit"
	FieldPriceHotelCash    = "price_hotel_cash"
	FieldPriceHotelCredit  = "price_hotel_credit"
)

// AuditedPriceFields returns the audited field names in stable order.
func AuditedPriceFields() []string {
	return []string{
		FieldPriceDealerCash,
		FieldPriceDealerCredit,
		FieldPriceHotelCash,
		FieldPriceHotelCredit,
	}
}

// Product represents a sellable farm product with tiered pricing
type Product struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Category          ProductCategory `json:"category"`
	Unit              string          `json:"unit"`
	StockQty          float64         `json:"stock_qty"`
	PriceDealerCash   float64         `json:"price_dealer_cash"`
	PriceDealerCredit float64         `json:"price_dealer_credit"`
	PriceHotelCash    float64         `json:"price_hotel_cash"`
	PriceHotelCredit  float64         `json:"price_hotel_credit"`
	Active            bool            `json:"active"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewProduct creates a new product. The code is minted by the caller via
// the code allocator before the insert.
func NewProduct(code, name string, category ProductCategory, unit string, createdBy string) *Product {
	now := time.Now()
	return &Product{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Category:  category,
		Unit:      unit,
		Active:    true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PriceSnapshot returns the audited price fields as a field map, keyed by
// the audited field names.
func (p *Product) PriceSnapshot() map[string]interface{} {
	return map[string]interface{}{
		FieldPriceDealerCash:   p.PriceDealerCash,
		FieldPriceDealerCredit: p.PriceDealerCredit,
		FieldPriceHotelCash:    p.PriceHotelCash,
		FieldPriceHotelCredit:  p.PriceHotelCredit,
	}
}

// SetPrices applies a new price snapshot to the product.
func (p *Product) SetPrices(dealerCash, dealerCredit, hotelCash, hotelCredit float64) error {
	if !p.Active {
		return ErrProductInactive
	}
	p.PriceDealerCash = dealerCash
	p.PriceDealerCredit = dealerCredit
	p.PriceHotelCash = hotelCash
	p.PriceHotelCredit = hotelCredit
	p.UpdatedAt = time.Now()
	return nil
}

// PriceForTier returns the unit price for a price tier.
func (p *Product) PriceForTier(tier PriceTier) (float64, error) {
	switch tier {
	case PriceTierDealerCash:
		return p.PriceDealerCash, nil
	case PriceTierDealerCredit:
		return p.PriceDealerCredit, nil
	case PriceTierHotelCash:
		return p.PriceHotelCash, nil
	case PriceTierHotelCredit:
		return p.PriceHotelCredit, nil
	default:
		return 0, ErrInvalidPriceTier
	}
}

// ProductFilter represents filters for listing products
type ProductFilter struct {
	Category  *ProductCategory `json:"category,omitempty"`
	Active    *bool            `json:"active,omitempty"`
	CreatedBy *string          `json:"created_by,omitempty"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}
