package domain

import (
	"time"
)

// Media kinds, classified from the declared content type at upload time.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// FeaturedLimit caps how many products may carry the featured flag at once,
// enforced at write time.
const FeaturedLimit = 10

// PriceOnEnquiry is the marker used when a product has no fixed price.
const PriceOnEnquiry = "On Enquiry"

type ProductCategory struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Description string    `json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

type Product struct {
	ID          int64          `json:"id,string" form:"id"`
	CategoryID  int64          `gorm:"index" json:"category_id,string" form:"category_id"`
	Name        string         `gorm:"index" json:"name" form:"name"`
	Hint        string         `json:"hint" form:"hint"`
	Description string         `json:"description" form:"description"`
	Price       string         `json:"price" form:"price"`
	Size        string         `json:"size" form:"size"`
	Featured    bool           `gorm:"index" json:"featured" form:"featured"`
	Media       []ProductMedia `gorm:"foreignKey:ProductID" json:"media"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductMedia is one blob attached to a product. PublicID is the storage
// reference used for deletion; URL is the durable retrieval URL.
type ProductMedia struct {
	ID        int64     `json:"id,string"`
	ProductID int64     `gorm:"index" json:"product_id,string"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	Kind      string    `json:"kind"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductMedia) TableName() string {
	return "product_media"
}

// MediaKindFromContentType classifies an upload by its declared content
// type: video/* is video, everything else is image.
func MediaKindFromContentType(contentType string) string {
	if len(contentType) >= 6 && contentType[:6] == "video/" {
		return MediaKindVideo
	}
	return MediaKindImage
}
