package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the catalog has no product with a given ID.
var ErrNotFound = errors.New("product not found")

// ID identifies a product everywhere in the app. It is the only field used
// to match products between the catalog, the cart and the favorites.
type ID int

type Product struct {
	ID                   ID              `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	DiscountPercentage   decimal.Decimal `json:"discountPercentage"`
	Rating               float64         `json:"rating"`
	Stock                int             `json:"stock"`
	Tags                 []string        `json:"tags"`
	Brand                string          `json:"brand,omitempty"`
	SKU                  string          `json:"sku"`
	Weight               float64         `json:"weight"`
	Dimensions           Dimensions      `json:"dimensions"`
	WarrantyInformation  string          `json:"warrantyInformation"`
	ShippingInformation  string          `json:"shippingInformation"`
	AvailabilityStatus   string          `json:"availabilityStatus"`
	Reviews              []Review        `json:"reviews"`
	ReturnPolicy         string          `json:"returnPolicy"`
	MinimumOrderQuantity int             `json:"minimumOrderQuantity"`
	Meta                 Meta            `json:"meta"`
	Images               []string        `json:"images"`
	Thumbnail            string          `json:"thumbnail"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

type Meta struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Barcode   string `json:"barcode"`
	QRCode    string `json:"qrCode"`
}

// Page is the envelope the remote catalog wraps listings in.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Listing is what the product screen renders: the products matching the
// selected category plus every category the full result set offers.
type Listing struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
	Category   string    `json:"category"`
	NotFound   bool      `json:"notFound"`
}

// AverageRating is the mean of the review ratings, or the catalog rating
// when the product carries no reviews.
func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return p.Rating
	}

	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}
