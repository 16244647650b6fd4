package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItemDetails = errors.New("invalid catalog item details")
	ErrInvalidBrandID     = errors.New("invalid catalog brand id")
	ErrInvalidTypeID      = errors.New("invalid catalog type id")
)

type CatalogItem struct {
	ID             int64
	Name           string
	Description    string
	Price          decimal.Decimal
	PictureURI     string
	CatalogTypeID  int64
	CatalogBrandID int64
}

func (c *CatalogItem) UpdateDetails(name, description string, price decimal.Decimal) error {
	if name == "" || description == "" || !price.IsPositive() {
		return ErrInvalidItemDetails
	}
	c.Name = name
	c.Description = description
	c.Price = price
	return nil
}

func (c *CatalogItem) UpdateBrand(brandID int64) error {
	if brandID <= 0 {
		return ErrInvalidBrandID
	}
	c.CatalogBrandID = brandID
	return nil
}

func (c *CatalogItem) UpdateType(typeID int64) error {
	if typeID <= 0 {
		return ErrInvalidTypeID
	}
	c.CatalogTypeID = typeID
	return nil
}

type CatalogBrand struct {
	ID    int64
	Brand string
}

type CatalogType struct {
	ID   int64
	Type string
}
