package job

import (
	"errors"
	"strings"

	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is the postal location of a job. Street, city and state are
// required; zip code and country are optional. The zip code participates in
// the route-ordering fallback for jobs that could not be geocoded.
type Address struct { //nolint:recvcheck //using for validation
	street  string
	city    string
	state   string
	zipCode string
	country string

	guard guard.ConstructorGuard
}

// NewAddress creates an Address, requiring street, city and state.
func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	a := Address{
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setStreet(street),
		a.setCity(city),
		a.setState(state),
	); err != nil {
		return Address{}, err
	}

	return a, nil
}

// Validate checks the Address was produced by NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line.
func (a Address) Street() string { return a.street }

// City returns the city.
func (a Address) City() string { return a.city }

// State returns the state or region.
func (a Address) State() string { return a.state }

// ZipCode returns the postal code, possibly empty.
func (a Address) ZipCode() string { return a.zipCode }

// Country returns the country, possibly empty.
func (a Address) Country() string { return a.country }

// String renders the address as a single geocodable line.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.zipCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setState(state string) error {
	state = strings.TrimSpace(state)
	if state == "" {
		return errs.NewValueIsRequiredError("state")
	}
	a.state = state
	return nil
}
