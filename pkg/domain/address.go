package domain

// Address field names reported in ValidationError.Field.
const (
	FieldStreetNumber = "street number"
	FieldStreetName   = "street name"
	FieldSuburb       = "suburb"
	FieldPostCode     = "post code"
)

// Address is a validated postal address attached to a member. Every field always
// satisfies its predicate; a rejected setter leaves the previous value in place.
type Address struct {
	streetNumber string
	streetName   string
	suburb       string
	postCode     string
}

// NewAddress validates and stores the four fields, failing on the first invalid one.
func NewAddress(streetNumber, streetName, suburb, postCode string) (*Address, error) {
	a := &Address{}
	if err := a.SetStreetNumber(streetNumber); err != nil {
		return nil, err
	}
	if err := a.SetStreetName(streetName); err != nil {
		return nil, err
	}
	if err := a.SetSuburb(suburb); err != nil {
		return nil, err
	}
	if err := a.SetPostCode(postCode); err != nil {
		return nil, err
	}
	return a, nil
}

// StreetNumber returns the validated street number.
func (a *Address) StreetNumber() string { return a.streetNumber }

// StreetName returns the validated street name.
func (a *Address) StreetName() string { return a.streetName }

// Suburb returns the validated suburb.
func (a *Address) Suburb() string { return a.suburb }

// PostCode returns the validated post code.
func (a *Address) PostCode() string { return a.postCode }

// SetStreetNumber requires an address-charset value containing at least one digit.
func (a *Address) SetStreetNumber(v string) error {
	if !IsValidStreetNumber(v) {
		return invalidField(FieldStreetNumber, v, "must contain a digit and only letters, digits, spaces or ' / № # - _")
	}
	a.streetNumber = NormalizeField(v)
	return nil
}

// SetStreetName replaces the street name when it satisfies IsValidAddressField.
func (a *Address) SetStreetName(v string) error {
	if !IsValidAddressField(v) {
		return invalidField(FieldStreetName, v, addressCharsetReason)
	}
	a.streetName = NormalizeField(v)
	return nil
}

// SetSuburb replaces the suburb when it satisfies IsValidAddressField.
func (a *Address) SetSuburb(v string) error {
	if !IsValidAddressField(v) {
		return invalidField(FieldSuburb, v, addressCharsetReason)
	}
	a.suburb = NormalizeField(v)
	return nil
}

// SetPostCode replaces the post code when it satisfies IsValidAddressField.
func (a *Address) SetPostCode(v string) error {
	if !IsValidAddressField(v) {
		return invalidField(FieldPostCode, v, addressCharsetReason)
	}
	a.postCode = NormalizeField(v)
	return nil
}

const addressCharsetReason = "must be non-empty and contain only letters, digits, spaces or ' / № # - _"

// Clone returns an independent copy.
func (a *Address) Clone() *Address {
	cp := *a
	return &cp
}

// String renders the address on one line as number, street, suburb and post code.
func (a *Address) String() string {
	return a.streetNumber + " " + a.streetName + ", " + a.suburb + ", " + a.postCode
}
