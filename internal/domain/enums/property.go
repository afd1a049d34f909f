package enums

type RentOrSale string

const (
	RentOrSaleRent RentOrSale = "RENT"
	RentOrSaleSale RentOrSale = "SALE"
)

func ParseRentOrSale(value string) (RentOrSale, bool) {
	switch RentOrSale(value) {
	case RentOrSaleRent, RentOrSaleSale:
		return RentOrSale(value), true
	}
	return "", false
}

type PropertyType string

const (
	PropertyTypeHouse    PropertyType = "HOUSE"
	PropertyTypeRoom     PropertyType = "ROOM"
	PropertyTypeAnnex    PropertyType = "ANNEX"
	PropertyTypeBoarding PropertyType = "BOARDING"
)

func ParsePropertyType(value string) (PropertyType, bool) {
	switch PropertyType(value) {
	case PropertyTypeHouse, PropertyTypeRoom, PropertyTypeAnnex, PropertyTypeBoarding:
		return PropertyType(value), true
	}
	return "", false
}
